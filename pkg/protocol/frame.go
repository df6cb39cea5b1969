package protocol

import (
	"errors"
	"io"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 4

	// MaxPayloadSize is the maximum payload size (2^24 - 1 bytes).
	MaxPayloadSize = 1<<24 - 1
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameOps      FrameType = 0x01 // Operations of one render
	FrameSnapshot FrameType = 0x02 // Full rebuild of the tree
	FrameError    FrameType = 0x03 // Error message
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameOps:
		return "Ops"
	case FrameSnapshot:
		return "Snapshot"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is a protocol frame: a type and a payload.
type Frame struct {
	Type    FrameType
	Payload []byte
}

// NewFrame creates a new frame with the given type and payload.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode encodes the frame to bytes including the header.
func (f *Frame) Encode() ([]byte, error) {
	length := len(f.Payload)
	if length > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	buf := make([]byte, FrameHeaderSize+length)
	buf[0] = byte(f.Type)
	buf[1] = byte(length >> 16)
	buf[2] = byte(length >> 8)
	buf[3] = byte(length)
	copy(buf[FrameHeaderSize:], f.Payload)
	return buf, nil
}

func decodeHeader(h []byte) (FrameType, int, error) {
	ft := FrameType(h[0])
	switch ft {
	case FrameOps, FrameSnapshot, FrameError:
	default:
		return 0, 0, ErrInvalidFrameType
	}
	return ft, int(h[1])<<16 | int(h[2])<<8 | int(h[3]), nil
}

// DecodeFrame decodes a frame from bytes. The input must contain the header
// and the full payload; trailing bytes are ignored.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}
	ft, length, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < FrameHeaderSize+length {
		return nil, io.ErrUnexpectedEOF
	}

	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:FrameHeaderSize+length])
	return &Frame{Type: ft, Payload: payload}, nil
}

// ReadFrame reads a complete frame from an io.Reader.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	ft, length, err := decodeHeader(header)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	return &Frame{Type: ft, Payload: payload}, nil
}

// WriteFrame writes a complete frame to an io.Writer.
func WriteFrame(w io.Writer, f *Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ErrorFrame builds a FrameError carrying msg.
func ErrorFrame(msg string) *Frame {
	e := NewEncoder()
	e.WriteString(msg)
	return NewFrame(FrameError, e.Bytes())
}

// DecodeError returns the message of a FrameError payload.
func DecodeError(payload []byte) (string, error) {
	return NewDecoder(payload).ReadString()
}
