package proto

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/maduhu/hazelcast/internal/proto/bits"
)

// Limits constrains frame decode memory use.
type Limits struct {
	MaxFrameBytes int
}

func DefaultLimits() Limits {
	return Limits{MaxFrameBytes: 8 * 1024 * 1024}
}

// WriteFrame writes one frame: u32 content length, u16 flags, content, all
// little-endian.
func WriteFrame(w io.Writer, f Frame) error {
	var head [SizeOfFrameLengthAndFlags]byte
	binary.LittleEndian.PutUint32(head[0:4], uint32(len(f.Content)))
	binary.LittleEndian.PutUint16(head[4:6], f.Flags)
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	if len(f.Content) == 0 {
		return nil
	}
	_, err := w.Write(f.Content)
	return err
}

// ReadFrame reads one frame from r.
func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	var head [SizeOfFrameLengthAndFlags]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrTruncated
		}
		return Frame{}, err
	}
	length := binary.LittleEndian.Uint32(head[0:4])
	flags := binary.LittleEndian.Uint16(head[4:6])
	if int(length) > limits.MaxFrameBytes {
		return Frame{}, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}
	content := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, content); err != nil {
			return Frame{}, ErrTruncated
		}
	}
	return Frame{Content: content, Flags: flags}, nil
}

// WriteMessage writes the frame sequence, marking the last frame final on
// the wire without mutating the stored frame.
func WriteMessage(w io.Writer, m *Message) error {
	if len(m.Frames) == 0 {
		return ErrEmptyMessage
	}
	last := len(m.Frames) - 1
	for i, f := range m.Frames {
		if i == last {
			f.Flags |= FinalFlag
		}
		if err := WriteFrame(w, f); err != nil {
			return err
		}
	}
	return nil
}

// ReadMessage reads frames until the final-flagged frame and returns them as
// one message. The initial frame must be large enough to carry the message
// type and correlation id.
func ReadMessage(r io.Reader, limits Limits) (*Message, error) {
	frames := make([]Frame, 0, 4)
	for {
		f, err := ReadFrame(r, limits)
		if err != nil {
			if errors.Is(err, io.EOF) && len(frames) > 0 {
				return nil, ErrTruncated
			}
			return nil, err
		}
		frames = append(frames, f)
		if f.IsFinalFrame() {
			break
		}
	}
	// fragment chunk heads carry only the fragmentation id; anything else
	// must also cover the correlation id so header reads stay in bounds
	min := FragmentationIDOffset + bits.Int64SizeInBytes
	if IsFlagSet(frames[0].Flags, UnfragmentedFlags) {
		min = ResponseHeaderSize
	}
	if len(frames[0].Content) < min {
		return nil, ErrOffsetOutOfBounds
	}
	return NewMessageForDecode(frames), nil
}
