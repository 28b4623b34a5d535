package net

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// Conn is a reliable, ordered message channel to one peer.
type Conn interface {
	// ReadMessage blocks for the next message. A *DecodeError leaves the
	// connection usable; any other error means it is gone.
	ReadMessage(ctx context.Context) (Message, error)
	WriteMessage(ctx context.Context, msg Message) error
	Close() error
	RemoteAddr() string
}

var noDeadline time.Time

// StreamConn frames messages over a byte stream such as TCP.
type StreamConn struct {
	conn     net.Conn
	r        *bufio.Reader
	maxFrame int
	wmu      sync.Mutex
}

// NewStreamConn wraps a stream connection. maxFrame <= 0 uses
// DefaultMaxFrameBytes.
func NewStreamConn(conn net.Conn, maxFrame int) *StreamConn {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameBytes
	}
	return &StreamConn{conn: conn, r: bufio.NewReader(conn), maxFrame: maxFrame}
}

// DialTCP connects to a match server over TCP.
func DialTCP(ctx context.Context, addr string, maxFrame int) (*StreamConn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return NewStreamConn(conn, maxFrame), nil
}

func (c *StreamConn) ReadMessage(ctx context.Context) (Message, error) {
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	payload, err := ReadFrame(c.r, c.maxFrame)
	if err != nil {
		if ctx.Err() != nil {
			return Message{}, ctx.Err()
		}
		return Message{}, err
	}
	return Unmarshal(payload)
}

func (c *StreamConn) WriteMessage(ctx context.Context, msg Message) error {
	data, err := Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type, err)
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetWriteDeadline(deadline)
		defer c.conn.SetWriteDeadline(noDeadline)
	}
	return WriteFrame(c.conn, data)
}

func (c *StreamConn) Close() error {
	return c.conn.Close()
}

func (c *StreamConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
