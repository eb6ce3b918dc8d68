package fragment

import (
	"bytes"
	"errors"
	"testing"

	"github.com/maduhu/hazelcast/internal/proto"
	"github.com/maduhu/hazelcast/internal/proto/bits"
	"github.com/maduhu/hazelcast/internal/testutil/testlog"
)

func buildMessage(t *testing.T, payloadFrames int, frameBytes int) *proto.Message {
	t.Helper()
	m := proto.NewMessageForEncode()
	m.Add(proto.NewFrameWithFlags(make([]byte, proto.RequestHeaderSize), proto.UnfragmentedFlags))
	m.SetMessageType(42)
	m.SetCorrelationID(7)
	for i := 0; i < payloadFrames; i++ {
		content := bytes.Repeat([]byte{byte(i + 1)}, frameBytes)
		m.Add(proto.NewFrame(content))
	}
	return m
}

func TestSplitUnderBudgetPassesThrough(t *testing.T) {
	m := buildMessage(t, 2, 16)
	chunks := Split(m, m.TotalLength(), 1)
	if len(chunks) != 1 || chunks[0] != m {
		t.Fatalf("expected passthrough, got %d chunks", len(chunks))
	}
}

func TestSplitReassembleRestoresFrames(t *testing.T) {
	testlog.Start(t)
	m := buildMessage(t, 6, 100)
	chunks := Split(m, 256, 99)
	if len(chunks) < 2 {
		t.Fatalf("expected fragmentation, got %d chunks", len(chunks))
	}

	for i, chunk := range chunks {
		head := chunk.Frames[0]
		if got := bits.ReadInt64(head.Content, proto.FragmentationIDOffset); got != 99 {
			t.Fatalf("chunk %d fragmentation id: %d", i, got)
		}
		switch i {
		case 0:
			if head.Flags != proto.BeginFragmentFlag {
				t.Fatalf("first chunk flags: %#x", head.Flags)
			}
		case len(chunks) - 1:
			if head.Flags != proto.EndFragmentFlag {
				t.Fatalf("last chunk flags: %#x", head.Flags)
			}
		default:
			if head.Flags != proto.DefaultFlags {
				t.Fatalf("middle chunk flags: %#x", head.Flags)
			}
		}
	}

	r := NewReassembler()
	var assembled *proto.Message
	for i, chunk := range chunks {
		out, done, err := r.Accept(chunk)
		if err != nil {
			t.Fatalf("accept chunk %d: %v", i, err)
		}
		if done != (i == len(chunks)-1) {
			t.Fatalf("chunk %d done=%t", i, done)
		}
		if done {
			assembled = out
		}
	}

	if len(assembled.Frames) != len(m.Frames) {
		t.Fatalf("frame count: got %d want %d", len(assembled.Frames), len(m.Frames))
	}
	for i := range m.Frames {
		if !bytes.Equal(assembled.Frames[i].Content, m.Frames[i].Content) {
			t.Fatalf("frame %d content differs", i)
		}
		if assembled.Frames[i].Flags != m.Frames[i].Flags {
			t.Fatalf("frame %d flags differ", i)
		}
	}
	if assembled.CorrelationID() != 7 || assembled.MessageType() != 42 {
		t.Fatalf("header after reassembly: %s", assembled)
	}
	if r.Pending() != 0 {
		t.Fatalf("pending state leaked: %d", r.Pending())
	}
}

func TestSplitNeverSplitsAFrame(t *testing.T) {
	// one frame twice the budget still travels whole
	m := buildMessage(t, 1, 512)
	chunks := Split(m, 256, 5)
	for _, chunk := range chunks {
		for _, f := range chunk.Frames[1:] {
			if len(f.Content) != proto.RequestHeaderSize && len(f.Content) != 512 {
				t.Fatalf("frame was split: %d bytes", len(f.Content))
			}
		}
	}

	r := NewReassembler()
	var assembled *proto.Message
	for _, chunk := range chunks {
		out, done, err := r.Accept(chunk)
		if err != nil {
			t.Fatalf("accept: %v", err)
		}
		if done {
			assembled = out
		}
	}
	if assembled == nil || len(assembled.Frames) != 2 {
		t.Fatalf("reassembly failed: %+v", assembled)
	}
}

func TestInterleavedFragmentStreams(t *testing.T) {
	testlog.Start(t)
	m1 := buildMessage(t, 4, 100)
	m2 := buildMessage(t, 4, 100)
	chunks1 := Split(m1, 256, 1)
	chunks2 := Split(m2, 256, 2)

	r := NewReassembler()
	completed := 0
	for i := 0; i < len(chunks1) || i < len(chunks2); i++ {
		if i < len(chunks1) {
			if _, done, err := r.Accept(chunks1[i]); err != nil {
				t.Fatalf("stream 1 chunk %d: %v", i, err)
			} else if done {
				completed++
			}
		}
		if i < len(chunks2) {
			if _, done, err := r.Accept(chunks2[i]); err != nil {
				t.Fatalf("stream 2 chunk %d: %v", i, err)
			} else if done {
				completed++
			}
		}
	}
	if completed != 2 {
		t.Fatalf("completed %d of 2 interleaved messages", completed)
	}
	if r.Pending() != 0 {
		t.Fatalf("pending state leaked: %d", r.Pending())
	}
}

func TestUnfragmentedMessagePassesThrough(t *testing.T) {
	m := buildMessage(t, 1, 8)
	r := NewReassembler()
	out, done, err := r.Accept(m)
	if err != nil || !done || out != m {
		t.Fatalf("passthrough: out=%v done=%t err=%v", out, done, err)
	}
}

func TestChunkForUnknownIDRejected(t *testing.T) {
	m := buildMessage(t, 4, 200)
	chunks := Split(m, 256, 3)
	r := NewReassembler()
	// end chunk without its begin
	_, _, err := r.Accept(chunks[len(chunks)-1])
	if !errors.Is(err, ErrUnknownFragmentID) {
		t.Fatalf("expected ErrUnknownFragmentID, got %v", err)
	}
}

func TestDuplicateBeginRejected(t *testing.T) {
	m := buildMessage(t, 4, 200)
	chunks := Split(m, 256, 4)
	r := NewReassembler()
	if _, _, err := r.Accept(chunks[0]); err != nil {
		t.Fatalf("first begin: %v", err)
	}
	if _, _, err := r.Accept(chunks[0]); !errors.Is(err, ErrDuplicateFragmentID) {
		t.Fatalf("expected ErrDuplicateFragmentID, got %v", err)
	}
}

func TestReassembledShortInitialFrameRejected(t *testing.T) {
	header := make([]byte, bits.Int64SizeInBytes)
	bits.WriteInt64(header, proto.FragmentationIDOffset, 11)

	begin := proto.NewMessageForEncode()
	begin.Add(proto.NewFrameWithFlags(header, proto.BeginFragmentFlag))
	begin.Add(proto.NewFrame([]byte{1, 2}))

	end := proto.NewMessageForEncode()
	end.Add(proto.NewFrameWithFlags(header, proto.EndFragmentFlag))

	r := NewReassembler()
	if _, _, err := r.Accept(begin); err != nil {
		t.Fatalf("begin chunk: %v", err)
	}
	// the assembled message's initial frame cannot hold the correlation id
	if _, _, err := r.Accept(end); !errors.Is(err, proto.ErrOffsetOutOfBounds) {
		t.Fatalf("expected ErrOffsetOutOfBounds, got %v", err)
	}
	if r.Pending() != 0 {
		t.Fatalf("pending state leaked: %d", r.Pending())
	}
}

func TestShortFragmentHeaderRejected(t *testing.T) {
	m := proto.NewMessageForEncode()
	m.Add(proto.NewFrameWithFlags([]byte{1, 2}, proto.BeginFragmentFlag))
	r := NewReassembler()
	if _, _, err := r.Accept(m); !errors.Is(err, ErrShortFragmentHeader) {
		t.Fatalf("expected ErrShortFragmentHeader, got %v", err)
	}
}
