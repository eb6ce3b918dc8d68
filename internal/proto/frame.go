package proto

import "github.com/maduhu/hazelcast/internal/proto/bits"

// Frame flag bits within the 16-bit per-frame flag field.
// Bits 0-8 are reserved.
const (
	DefaultFlags           uint16 = 0
	IsEventFlag            uint16 = 1 << 9
	IsNullFlag             uint16 = 1 << 10
	EndDataStructureFlag   uint16 = 1 << 11
	BeginDataStructureFlag uint16 = 1 << 12
	FinalFlag              uint16 = 1 << 13
	EndFragmentFlag        uint16 = 1 << 14
	BeginFragmentFlag      uint16 = 1 << 15

	// UnfragmentedFlags on an initial frame marks the entire message as one
	// wire chunk.
	UnfragmentedFlags = BeginFragmentFlag | EndFragmentFlag
)

// SizeOfFrameLengthAndFlags is the per-frame wire overhead: u32 length plus
// u16 flags.
const SizeOfFrameLengthAndFlags = bits.Int32SizeInBytes + bits.Uint16SizeInBytes

// Frame is the atomic transport unit: content bytes plus a flag mask.
// Flags are set at construction and never mutated afterwards. Content must
// not be nil; a zero-length frame is still a frame.
type Frame struct {
	Content []byte
	Flags   uint16
}

// Canonical marker frames. They carry no payload state and are shared by
// every message that emits them.
var (
	NullFrame  = Frame{Content: []byte{}, Flags: IsNullFlag}
	BeginFrame = Frame{Content: []byte{}, Flags: BeginDataStructureFlag}
	EndFrame   = Frame{Content: []byte{}, Flags: EndDataStructureFlag}
)

func NewFrame(content []byte) Frame {
	return Frame{Content: content, Flags: DefaultFlags}
}

func NewFrameWithFlags(content []byte, flags uint16) Frame {
	return Frame{Content: content, Flags: flags}
}

// Copy duplicates the frame content. The copy never aliases the original
// buffer, so it is safe to rewrite header fields in it for retry.
func (f Frame) Copy() Frame {
	content := make([]byte, len(f.Content))
	copy(content, f.Content)
	return Frame{Content: content, Flags: f.Flags}
}

func (f Frame) IsNullFrame() bool {
	return IsFlagSet(f.Flags, IsNullFlag)
}

func (f Frame) IsBeginFrame() bool {
	return IsFlagSet(f.Flags, BeginDataStructureFlag)
}

func (f Frame) IsEndFrame() bool {
	return IsFlagSet(f.Flags, EndDataStructureFlag)
}

func (f Frame) IsFinalFrame() bool {
	return IsFlagSet(f.Flags, FinalFlag)
}

// Size is the frame's wire footprint including the length+flags header.
func (f Frame) Size() int {
	return SizeOfFrameLengthAndFlags + len(f.Content)
}

func IsFlagSet(flags, mask uint16) bool {
	return flags&mask == mask
}
