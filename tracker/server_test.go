package tracker

import (
	"context"
	"io"
	"log"
	"math"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkRecorder struct {
	mu      sync.Mutex
	samples [][2]float64
}

func (s *sinkRecorder) Feed(nx, ny float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, [2]float64{nx, ny})
}

func (s *sinkRecorder) snapshot() [][2]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][2]float64(nil), s.samples...)
}

func startServer(t *testing.T) (*Server, *sinkRecorder, string) {
	t.Helper()
	sink := &sinkRecorder{}
	cfg := DefaultConfig("")
	cfg.Mirror = true
	srv := NewServer(cfg, sink, log.New(io.Discard, "", 0))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, sink, "ws" + strings.TrimPrefix(ts.URL, "http") + "/pose"
}

func TestServerAcceptsPoses(t *testing.T) {
	for _, binary := range []bool{false, true} {
		srv, sink, url := startServer(t)

		client, err := Dial(context.Background(), url, binary)
		require.NoError(t, err)

		welcome, err := client.Hello("test")
		require.NoError(t, err)
		assert.Equal(t, "dragonbubbles", welcome.Server)
		assert.True(t, welcome.Mirror)
		assert.Equal(t, 0.5, welcome.MinScore)

		require.NoError(t, client.SendPose(Pose{X: 0.25, Y: 0.75, V: 0.9}))
		require.NoError(t, client.SendPose(Pose{X: 0.9, Y: 0.9, V: 0.1}))
		require.NoError(t, client.SendPose(Pose{X: 0.5, Y: 0.5, V: 0.5}))

		require.Eventually(t, func() bool {
			st := srv.Stats()
			return st.Accepted+st.Dropped == 3
		}, 2*time.Second, 5*time.Millisecond)

		assert.Equal(t, [][2]float64{{0.25, 0.75}, {0.5, 0.5}}, sink.snapshot())
		st := srv.Stats()
		assert.Equal(t, uint64(1), st.Connections)
		assert.Equal(t, uint64(1), st.Dropped)

		require.NoError(t, client.Close())
	}
}

func TestServerSkipsMalformedFrames(t *testing.T) {
	srv, sink, url := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`garbage`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"wave","p":{}}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"pose","p":{"x":0.1,"y":0.2,"v":1}}`)))

	require.Eventually(t, func() bool {
		return srv.Stats().Accepted == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, uint64(2), srv.Stats().Malformed)
	assert.Equal(t, [][2]float64{{0.1, 0.2}}, sink.snapshot())
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	sink := &sinkRecorder{}
	srv := NewServer(DefaultConfig("127.0.0.1:0"), sink, log.New(io.Discard, "", 0))

	ctx, cancel := context.WithCancel(context.Background())
	addrs := make(chan string, 1)
	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe(ctx, func(addr string) { addrs <- addr })
	}()

	var addr string
	select {
	case addr = <-addrs:
	case err := <-errs:
		t.Fatalf("server failed: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}

	client, err := Dial(context.Background(), "ws://"+addr+"/pose", false)
	require.NoError(t, err)
	require.NoError(t, client.SendPose(Pose{X: 0.3, Y: 0.3, V: 1}))
	require.Eventually(t, func() bool { return len(sink.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)
	client.Close()

	cancel()
	select {
	case err := <-errs:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerRejectsNonFinitePoses(t *testing.T) {
	srv, sink, url := startServer(t)

	client, err := Dial(context.Background(), url, true)
	require.NoError(t, err)
	defer client.Close()

	bad := []Pose{
		{X: math.NaN(), Y: 0.5, V: math.NaN()},
		{X: 0.5, Y: math.Inf(1), V: 1},
		{X: 0.5, Y: 0.5, V: math.Inf(-1)},
		{X: 1.5, Y: 0.5, V: 1},
		{X: 0.5, Y: -0.1, V: 1},
	}
	for _, p := range bad {
		require.NoError(t, client.SendPose(p))
	}
	require.NoError(t, client.SendPose(Pose{X: 1, Y: 0, V: 1}))

	require.Eventually(t, func() bool {
		return srv.Stats().Accepted == 1
	}, 2*time.Second, 5*time.Millisecond)

	st := srv.Stats()
	assert.Equal(t, uint64(len(bad)), st.Malformed)
	assert.Zero(t, st.Dropped)
	assert.Equal(t, [][2]float64{{1, 0}}, sink.snapshot())
}
