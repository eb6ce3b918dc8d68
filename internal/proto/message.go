package proto

import (
	"fmt"

	"github.com/maduhu/hazelcast/internal/proto/bits"
)

// Initial-frame header layout, offsets from frame-content start.
const (
	TypeFieldOffset          = 0
	CorrelationIDFieldOffset = TypeFieldOffset + bits.Uint16SizeInBytes
	PartitionIDFieldOffset   = CorrelationIDFieldOffset + bits.Int64SizeInBytes

	// FragmentationIDOffset is valid only on the header frame of a wire chunk.
	FragmentationIDOffset = 0

	// ResponseHeaderSize is the initial-frame size of a response with no
	// fixed fields. RequestHeaderSize additionally carries the partition id.
	ResponseHeaderSize = CorrelationIDFieldOffset + bits.Int64SizeInBytes
	RequestHeaderSize  = PartitionIDFieldOffset + bits.Int32SizeInBytes
)

// Connection identifies the transport connection a message is bound to.
// It is never serialized.
type Connection interface {
	RemoteAddr() string
}

// Message is an ordered sequence of frames carrying one request, response,
// or event. The first frame is the initial frame and holds the fixed-offset
// header; the remaining frames are the pre-order flattening of the payload.
//
// Everything besides Frames is transient metadata and never reaches the
// wire.
type Message struct {
	Frames []Frame

	Retryable        bool
	AcquiresResource bool
	OperationName    string
	Conn             Connection
}

// NewMessageForEncode returns an empty message ready for frames to be
// appended in schema order.
func NewMessageForEncode() *Message {
	return &Message{Frames: make([]Frame, 0, 4)}
}

// NewMessageForDecode wraps a received frame sequence. Structural decoders
// never mutate it; only header accessors may.
func NewMessageForDecode(frames []Frame) *Message {
	return &Message{Frames: frames}
}

func (m *Message) Add(f Frame) {
	m.Frames = append(m.Frames, f)
}

func (m *Message) InitialFrame() Frame {
	return m.Frames[0]
}

// FrameIterator returns the forward-only decode cursor over the frame
// sequence.
func (m *Message) FrameIterator() *ForwardIterator {
	return &ForwardIterator{frames: m.Frames}
}

func (m *Message) MessageType() uint16 {
	return bits.ReadUint16(m.Frames[0].Content, TypeFieldOffset)
}

func (m *Message) SetMessageType(t uint16) {
	bits.WriteUint16(m.Frames[0].Content, TypeFieldOffset, t)
}

func (m *Message) CorrelationID() int64 {
	return bits.ReadInt64(m.Frames[0].Content, CorrelationIDFieldOffset)
}

func (m *Message) SetCorrelationID(id int64) {
	bits.WriteInt64(m.Frames[0].Content, CorrelationIDFieldOffset, id)
}

func (m *Message) PartitionID() int32 {
	return bits.ReadInt32(m.Frames[0].Content, PartitionIDFieldOffset)
}

func (m *Message) SetPartitionID(id int32) {
	bits.WriteInt32(m.Frames[0].Content, PartitionIDFieldOffset, id)
}

func (m *Message) HeaderFlags() uint16 {
	return m.Frames[0].Flags
}

func (m *Message) IsEvent() bool {
	return IsFlagSet(m.Frames[0].Flags, IsEventFlag)
}

// TotalLength is the wire footprint of the whole frame sequence.
func (m *Message) TotalLength() int {
	total := 0
	for _, f := range m.Frames {
		total += f.Size()
	}
	return total
}

// CopyWithNewCorrelationID returns an independent message for retry. Only
// the initial frame is duplicated; the tail frames are shared with the
// original, which stays untouched.
func (m *Message) CopyWithNewCorrelationID(id int64) *Message {
	frames := make([]Frame, len(m.Frames))
	copy(frames, m.Frames)
	frames[0] = m.Frames[0].Copy()

	next := &Message{
		Frames:           frames,
		Retryable:        m.Retryable,
		AcquiresResource: m.AcquiresResource,
		OperationName:    m.OperationName,
	}
	next.SetCorrelationID(id)
	return next
}

func (m *Message) String() string {
	return fmt.Sprintf("Message{length=%d, correlationId=%d, messageType=%d, operation=%s, retryable=%t, event=%t}",
		m.TotalLength(), m.CorrelationID(), m.MessageType(), m.OperationName, m.Retryable, m.IsEvent())
}

// ForwardIterator walks a frame sequence front to back. Decoders advance it
// past everything they consume and peek only to classify the next frame.
type ForwardIterator struct {
	frames []Frame
	next   int
}

func (it *ForwardIterator) HasNext() bool {
	return it.next < len(it.frames)
}

// Next consumes and returns the next frame, or ErrTruncated when the cursor
// is exhausted before a required frame.
func (it *ForwardIterator) Next() (Frame, error) {
	if it.next >= len(it.frames) {
		return Frame{}, ErrTruncated
	}
	f := it.frames[it.next]
	it.next++
	return f, nil
}

// Peek returns the next frame without consuming it.
func (it *ForwardIterator) Peek() (Frame, error) {
	if it.next >= len(it.frames) {
		return Frame{}, ErrTruncated
	}
	return it.frames[it.next], nil
}
