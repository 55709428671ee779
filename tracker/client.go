package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// Client streams poses to a Server.
type Client struct {
	conn   *websocket.Conn
	binary bool
}

// Dial connects to a server at url (ws://host:port/pose). Binary clients
// send msgpack frames, others JSON.
func Dial(ctx context.Context, url string, binary bool) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{conn: conn, binary: binary}, nil
}

func (c *Client) send(t string, payload any) error {
	data, err := Encode(t, payload, c.binary)
	if err != nil {
		return err
	}
	kind := websocket.TextMessage
	if c.binary {
		kind = websocket.BinaryMessage
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteMessage(kind, data)
}

// Hello introduces the client and waits for the welcome.
func (c *Client) Hello(name string) (Welcome, error) {
	if err := c.send(MsgHello, Hello{Client: name}); err != nil {
		return Welcome{}, err
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	defer c.conn.SetReadDeadline(time.Time{})
	kind, data, err := c.conn.ReadMessage()
	if err != nil {
		return Welcome{}, err
	}
	msg, err := Decode(data, kind == websocket.BinaryMessage)
	if err != nil {
		return Welcome{}, err
	}
	if msg.Welcome == nil {
		return Welcome{}, fmt.Errorf("%w: expected welcome, got %q", ErrUnknownType, msg.T)
	}
	return *msg.Welcome, nil
}

// SendPose sends one sample.
func (c *Client) SendPose(p Pose) error {
	return c.send(MsgPose, p)
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}
