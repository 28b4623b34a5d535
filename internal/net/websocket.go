package net

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
)

// WSConn carries one message per binary WebSocket message.
type WSConn struct {
	ws     *websocket.Conn
	remote string
}

// NewWSConn wraps an established WebSocket. Messages over maxFrame bytes
// close the connection.
func NewWSConn(ws *websocket.Conn, remote string, maxFrame int) *WSConn {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameBytes
	}
	ws.SetReadLimit(int64(maxFrame))
	return &WSConn{ws: ws, remote: remote}
}

// AcceptWebSocket upgrades an HTTP request to a match connection.
func AcceptWebSocket(w http.ResponseWriter, r *http.Request, maxFrame int) (*WSConn, error) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		return nil, fmt.Errorf("websocket accept: %w", err)
	}
	return NewWSConn(ws, r.RemoteAddr, maxFrame), nil
}

// DialWebSocket connects to a match server's WebSocket endpoint.
func DialWebSocket(ctx context.Context, url string, maxFrame int) (*WSConn, error) {
	ws, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return NewWSConn(ws, url, maxFrame), nil
}

func (c *WSConn) ReadMessage(ctx context.Context) (Message, error) {
	typ, data, err := c.ws.Read(ctx)
	if err != nil {
		return Message{}, err
	}
	if typ != websocket.MessageBinary {
		return Message{}, &DecodeError{Err: errors.New("expected a binary message")}
	}
	return Unmarshal(data)
}

func (c *WSConn) WriteMessage(ctx context.Context, msg Message) error {
	data, err := Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type, err)
	}
	return c.ws.Write(ctx, websocket.MessageBinary, data)
}

func (c *WSConn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "")
}

func (c *WSConn) RemoteAddr() string {
	return c.remote
}
