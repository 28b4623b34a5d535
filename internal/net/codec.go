package net

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// DefaultMaxFrameBytes caps a single frame when no limit is configured.
const DefaultMaxFrameBytes = 1 << 20

// ErrFrameTooLarge is returned for frames over the size limit. The stream
// cannot be resynchronised after one, so the connection must be closed.
var ErrFrameTooLarge = errors.New("frame too large")

// DecodeError is a frame that arrived intact but did not decode to a valid
// message. The connection stays usable.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "malformed message: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	// Effects nest through abilities and summoned cards.
	decMode, err = cbor.DecOptions{MaxNestedLevels: 256}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Marshal encodes a message as CBOR.
func Marshal(msg Message) ([]byte, error) {
	return encMode.Marshal(msg)
}

// Unmarshal decodes and checks a CBOR message.
func Unmarshal(data []byte) (Message, error) {
	var msg Message
	if err := decMode.Unmarshal(data, &msg); err != nil {
		return Message{}, &DecodeError{Err: err}
	}
	if err := msg.Check(); err != nil {
		return Message{}, &DecodeError{Err: err}
	}
	return msg, nil
}

// WriteFrame writes one length-prefixed frame: a 4-byte big-endian length
// followed by the payload.
func WriteFrame(w io.Writer, payload []byte) error {
	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)
	_, err := w.Write(frame)
	return err
}

// ReadFrame reads one length-prefixed frame of at most max bytes.
func ReadFrame(r io.Reader, max int) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(header[:])
	if max > 0 && int64(n) > int64(max) {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFrameTooLarge, n, max)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return payload, nil
}
