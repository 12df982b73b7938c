package catalog

import (
	"context"

	"github.com/gorilla/websocket"
)

// Conn is the duplex connection used by the feed client. *websocket.Conn
// satisfies it; tests inject fakes.
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

// Dialer opens feed connections.
type Dialer interface {
	DialContext(ctx context.Context, url string) (Conn, error)
}

type websocketDialer struct {
	dialer *websocket.Dialer
}

// NewWebSocketDialer returns the production Dialer.
func NewWebSocketDialer() Dialer {
	return &websocketDialer{dialer: websocket.DefaultDialer}
}

func (d *websocketDialer) DialContext(ctx context.Context, url string) (Conn, error) {
	conn, _, err := d.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &websocketConn{conn}, nil
}

type websocketConn struct {
	*websocket.Conn
}

// Close sends a normal-closure frame before closing so the server sees a
// clean teardown rather than a dropped connection.
func (c *websocketConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.Conn.WriteMessage(websocket.CloseMessage, msg)
	return c.Conn.Close()
}
