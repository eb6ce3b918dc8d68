package proto

import (
	"errors"
	"strings"
	"testing"
)

func newRequestMessage(t *testing.T) *Message {
	t.Helper()
	m := NewMessageForEncode()
	m.Add(NewFrameWithFlags(make([]byte, RequestHeaderSize), UnfragmentedFlags))
	m.SetMessageType(0x1E08)
	m.SetCorrelationID(77)
	m.SetPartitionID(-1)
	m.Add(NewFrame([]byte("payload")))
	return m
}

func TestHeaderReadableFromInitialFrameAlone(t *testing.T) {
	m := newRequestMessage(t)

	// routing must not need anything past the first frame
	router := NewMessageForDecode([]Frame{m.InitialFrame()})
	if got := router.MessageType(); got != 0x1E08 {
		t.Fatalf("message type: got %#x", got)
	}
	if got := router.CorrelationID(); got != 77 {
		t.Fatalf("correlation id: got %d", got)
	}
	if got := router.PartitionID(); got != -1 {
		t.Fatalf("partition id: got %d", got)
	}
}

func TestCopyWithNewCorrelationIDIsolation(t *testing.T) {
	m := newRequestMessage(t)
	m.Retryable = true
	m.OperationName = "map.get"

	m2 := m.CopyWithNewCorrelationID(78)

	if m.CorrelationID() != 77 {
		t.Fatalf("original correlation mutated: %d", m.CorrelationID())
	}
	if m2.CorrelationID() != 78 {
		t.Fatalf("copy correlation: %d", m2.CorrelationID())
	}
	if !m2.Retryable || m2.OperationName != "map.get" {
		t.Fatalf("copy lost metadata: %+v", m2)
	}

	// mutating the original's header must not leak into the copy
	m.SetCorrelationID(99)
	if m2.CorrelationID() != 78 {
		t.Fatalf("copy affected by original mutation: %d", m2.CorrelationID())
	}

	// tail frames are shared, not duplicated
	if &m.Frames[1].Content[0] != &m2.Frames[1].Content[0] {
		t.Fatalf("tail frame content was duplicated")
	}
	// initial frame is not
	if &m.Frames[0].Content[0] == &m2.Frames[0].Content[0] {
		t.Fatalf("initial frame content is aliased")
	}
}

func TestFrameCopyNeverAliases(t *testing.T) {
	f := NewFrame([]byte{1, 2, 3})
	c := f.Copy()
	c.Content[0] = 9
	if f.Content[0] != 1 {
		t.Fatalf("copy aliased original content")
	}
	if c.Flags != f.Flags {
		t.Fatalf("copy lost flags")
	}
}

func TestMarkerFrames(t *testing.T) {
	if !NullFrame.IsNullFrame() || len(NullFrame.Content) != 0 {
		t.Fatalf("null frame malformed: %+v", NullFrame)
	}
	if !BeginFrame.IsBeginFrame() || !EndFrame.IsEndFrame() {
		t.Fatalf("structure marker frames malformed")
	}
	if NullFrame.Content == nil {
		t.Fatalf("marker frame content must be present, not absent")
	}
}

func TestForwardIteratorExhaustion(t *testing.T) {
	m := newRequestMessage(t)
	it := m.FrameIterator()
	for it.HasNext() {
		if _, err := it.Next(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	if _, err := it.Next(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if _, err := it.Peek(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated from peek, got %v", err)
	}
}

func TestTotalLength(t *testing.T) {
	m := newRequestMessage(t)
	want := (SizeOfFrameLengthAndFlags + RequestHeaderSize) + (SizeOfFrameLengthAndFlags + len("payload"))
	if got := m.TotalLength(); got != want {
		t.Fatalf("total length: got %d want %d", got, want)
	}
}

func TestStringForm(t *testing.T) {
	m := newRequestMessage(t)
	m.OperationName = "topic.publish"
	s := m.String()
	if !strings.Contains(s, "topic.publish") || !strings.Contains(s, "correlationId=77") {
		t.Fatalf("diagnostic string missing fields: %s", s)
	}
}
