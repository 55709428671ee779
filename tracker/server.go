package tracker

import (
	"context"
	"errors"
	"log"
	"math"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Sink receives accepted samples.
type Sink interface {
	Feed(nx, ny float64)
}

// Config tunes the server.
type Config struct {
	Addr          string
	MinVisibility float64
	// Mirror is echoed in the welcome frame so clients know whether the
	// game flips x.
	Mirror       bool
	ReadLimit    int64
	PongWait     time.Duration
	PingInterval time.Duration
	WriteWait    time.Duration
}

// DefaultConfig returns the stock timeouts for addr.
func DefaultConfig(addr string) Config {
	return Config{
		Addr:          addr,
		MinVisibility: 0.5,
		ReadLimit:     1 << 16,
		PongWait:      60 * time.Second,
		PingInterval:  25 * time.Second,
		WriteWait:     10 * time.Second,
	}
}

// Stats counts frames seen by the server.
type Stats struct {
	Connections uint64
	Accepted    uint64
	Dropped     uint64
	Malformed   uint64
}

// Server accepts pose streams at /pose. Any number of clients may connect;
// each accepted sample overwrites the sink's last-known position.
type Server struct {
	cfg      Config
	sink     Sink
	upgrader websocket.Upgrader
	logger   *log.Logger

	connections atomic.Uint64
	accepted    atomic.Uint64
	dropped     atomic.Uint64
	malformed   atomic.Uint64
}

// NewServer creates a server feeding sink.
func NewServer(cfg Config, sink Sink, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		sink:   sink,
		logger: logger,
		upgrader: websocket.Upgrader{
			// Pose pages are usually opened from file://.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/pose", s.handlePose)
	return mux
}

// Stats returns the current counters.
func (s *Server) Stats() Stats {
	return Stats{
		Connections: s.connections.Load(),
		Accepted:    s.accepted.Load(),
		Dropped:     s.dropped.Load(),
		Malformed:   s.malformed.Load(),
	}
}

// ListenAndServe serves until ctx is cancelled. ready, if not nil, receives
// the bound address once the listener is up.
func (s *Server) ListenAndServe(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Printf("[tracker] listening on ws://%s/pose", ln.Addr())
	if ready != nil {
		ready(ln.Addr().String())
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handlePose(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Println("[tracker] upgrade:", err)
		return
	}
	defer conn.Close()
	s.connections.Add(1)

	conn.SetReadLimit(s.cfg.ReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Println("[tracker] read:", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))

		binary := kind == websocket.BinaryMessage
		msg, err := Decode(data, binary)
		if err != nil {
			s.malformed.Add(1)
			continue
		}

		switch msg.T {
		case MsgPose:
			s.accept(*msg.Pose)
		case MsgHello:
			s.logger.Printf("[tracker] hello from %q", msg.Hello.Client)
			if err := s.welcome(conn, binary); err != nil {
				s.logger.Println("[tracker] write:", err)
				return
			}
		}
	}
}

func (s *Server) accept(p Pose) {
	if !p.valid() {
		s.malformed.Add(1)
		return
	}
	if p.V < s.cfg.MinVisibility {
		s.dropped.Add(1)
		return
	}
	s.accepted.Add(1)
	s.sink.Feed(p.X, p.Y)
}

// valid rejects non-finite fields and coordinates outside [0,1].
func (p Pose) valid() bool {
	for _, f := range []float64{p.X, p.Y, p.V} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

func (s *Server) welcome(conn *websocket.Conn, binary bool) error {
	data, err := Encode(MsgWelcome, Welcome{
		Server:   "dragonbubbles",
		Mirror:   s.cfg.Mirror,
		MinScore: s.cfg.MinVisibility,
	}, binary)
	if err != nil {
		return err
	}
	kind := websocket.TextMessage
	if binary {
		kind = websocket.BinaryMessage
	}
	_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
	return conn.WriteMessage(kind, data)
}

// pingLoop shares the connection's writer with welcome. gorilla allows one
// concurrent writer plus WriteControl, so pings go through WriteControl.
func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(s.cfg.WriteWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
