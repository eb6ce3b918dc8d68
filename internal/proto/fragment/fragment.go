// Package fragment splits messages that exceed the transport's byte budget
// into runs of whole frames and reassembles them on the receiving side.
// Structural decode never sees a partially reassembled message.
package fragment

import (
	"errors"
	"sync"

	"github.com/maduhu/hazelcast/internal/proto"
	"github.com/maduhu/hazelcast/internal/proto/bits"
)

var (
	ErrShortFragmentHeader = errors.New("fragment: chunk header frame too short")
	ErrUnknownFragmentID   = errors.New("fragment: chunk for unknown fragmentation id")
	ErrDuplicateFragmentID = errors.New("fragment: begin chunk for in-flight fragmentation id")
)

// Split breaks m into wire chunks of at most maxChunkBytes each. Frames are
// never split mid-content; a single frame over budget still travels whole in
// its own chunk. A message that fits the budget is returned unchanged.
//
// Each chunk is a self-contained wire message whose header frame carries the
// fragmentation id; the first chunk's header is flagged BeginFragment and
// the last chunk's EndFragment. Payload frames are shared with m, not
// copied.
func Split(m *proto.Message, maxChunkBytes int, fragmentID int64) []*proto.Message {
	if m.TotalLength() <= maxChunkBytes {
		return []*proto.Message{m}
	}

	var runs [][]proto.Frame
	var run []proto.Frame
	budget := maxChunkBytes - headerFrameSize()
	size := 0
	for _, f := range m.Frames {
		if len(run) > 0 && size+f.Size() > budget {
			runs = append(runs, run)
			run = nil
			size = 0
		}
		run = append(run, f)
		size += f.Size()
	}
	runs = append(runs, run)
	if len(runs) == 1 {
		// nothing to gain from a single oversized chunk
		return []*proto.Message{m}
	}

	chunks := make([]*proto.Message, len(runs))
	for i, frames := range runs {
		flags := proto.DefaultFlags
		if i == 0 {
			flags |= proto.BeginFragmentFlag
		}
		if i == len(runs)-1 {
			flags |= proto.EndFragmentFlag
		}
		header := make([]byte, bits.Int64SizeInBytes)
		bits.WriteInt64(header, proto.FragmentationIDOffset, fragmentID)
		chunk := proto.NewMessageForEncode()
		chunk.Add(proto.NewFrameWithFlags(header, flags))
		for _, f := range frames {
			chunk.Add(f)
		}
		chunks[i] = chunk
	}
	return chunks
}

// Reassembler buffers fragment chunks by fragmentation id until the end
// chunk arrives. Chunks for distinct messages may interleave on one
// connection, so all state is guarded by a mutex; a completed id yields
// exactly one assembled message and its partial state is dropped atomically.
type Reassembler struct {
	mu      sync.Mutex
	pending map[int64][]proto.Frame
}

func NewReassembler() *Reassembler {
	return &Reassembler{pending: make(map[int64][]proto.Frame)}
}

// Accept routes one received wire message. Unfragmented messages pass
// through untouched. For fragment chunks it returns the assembled message
// once the end chunk arrives, or (nil, false) while the id is still
// in flight.
func (r *Reassembler) Accept(m *proto.Message) (*proto.Message, bool, error) {
	if len(m.Frames) == 0 {
		return nil, false, proto.ErrEmptyMessage
	}
	head := m.Frames[0]
	if proto.IsFlagSet(head.Flags, proto.UnfragmentedFlags) {
		return m, true, nil
	}
	if len(head.Content) < proto.FragmentationIDOffset+bits.Int64SizeInBytes {
		return nil, false, ErrShortFragmentHeader
	}
	id := bits.ReadInt64(head.Content, proto.FragmentationIDOffset)

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case proto.IsFlagSet(head.Flags, proto.BeginFragmentFlag):
		if _, inFlight := r.pending[id]; inFlight {
			return nil, false, ErrDuplicateFragmentID
		}
		r.pending[id] = append([]proto.Frame(nil), m.Frames[1:]...)
		return nil, false, nil
	case proto.IsFlagSet(head.Flags, proto.EndFragmentFlag):
		frames, inFlight := r.pending[id]
		if !inFlight {
			return nil, false, ErrUnknownFragmentID
		}
		delete(r.pending, id)
		frames = append(frames, m.Frames[1:]...)
		if len(frames) == 0 || len(frames[0].Content) < proto.ResponseHeaderSize {
			return nil, false, proto.ErrOffsetOutOfBounds
		}
		return proto.NewMessageForDecode(frames), true, nil
	default:
		frames, inFlight := r.pending[id]
		if !inFlight {
			return nil, false, ErrUnknownFragmentID
		}
		r.pending[id] = append(frames, m.Frames[1:]...)
		return nil, false, nil
	}
}

// Pending reports how many fragmentation ids are in flight.
func (r *Reassembler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

func headerFrameSize() int {
	return proto.SizeOfFrameLengthAndFlags + bits.Int64SizeInBytes
}
