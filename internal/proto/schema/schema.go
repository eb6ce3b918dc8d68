// Package schema turns the per-operation codec catalogue into data: each
// operation declares its fixed-size request fields once, and one generic
// builder computes the initial-frame layout from declaration order.
package schema

import (
	"fmt"
	"sort"
	"sync"

	"github.com/maduhu/hazelcast/internal/proto"
	"github.com/maduhu/hazelcast/internal/proto/bits"
)

// Field widths usable in a FixedField declaration.
const (
	WidthBool  = bits.BoolSizeInBytes
	WidthInt32 = bits.Int32SizeInBytes
	WidthInt64 = bits.Int64SizeInBytes
	WidthUUID  = bits.UUIDSizeInBytes
)

// FixedField declares one fixed-size request field packed into the initial
// frame. The field's offset is the previous field's offset plus its width.
type FixedField struct {
	Name  string
	Width int
}

// Operation declares one RPC operation's wire contract: message types,
// retry classification, and the ordered fixed-field table. Variable-length
// fields are appended after the initial frame by the operation's caller via
// the codec package and are not declared here.
type Operation struct {
	Name             string
	RequestType      uint16
	ResponseType     uint16
	Retryable        bool
	AcquiresResource bool
	Partitioned      bool
	Fixed            []FixedField

	offsets          map[string]int
	requestFrameSize int
}

// compile computes the offset table. Offsets start after the partition id
// for partitioned operations, else directly after the correlation id.
func (op *Operation) compile() error {
	if op.Name == "" {
		return fmt.Errorf("schema: operation with request type %d has no name", op.RequestType)
	}
	offset := proto.ResponseHeaderSize
	if op.Partitioned {
		offset = proto.RequestHeaderSize
	}
	op.offsets = make(map[string]int, len(op.Fixed))
	for _, f := range op.Fixed {
		switch f.Width {
		case WidthBool, WidthInt32, WidthInt64, WidthUUID:
		default:
			return fmt.Errorf("schema: %s: field %q has unsupported width %d", op.Name, f.Name, f.Width)
		}
		if _, dup := op.offsets[f.Name]; dup {
			return fmt.Errorf("schema: %s: duplicate fixed field %q", op.Name, f.Name)
		}
		op.offsets[f.Name] = offset
		offset += f.Width
	}
	op.requestFrameSize = offset
	return nil
}

// OffsetOf returns the initial-frame offset of a declared fixed field.
// Asking for an undeclared field is a programming error.
func (op *Operation) OffsetOf(name string) int {
	offset, ok := op.offsets[name]
	if !ok {
		panic(fmt.Sprintf("schema: %s: no fixed field %q", op.Name, name))
	}
	return offset
}

// RequestFrameSize is the initial-frame content length of a request.
func (op *Operation) RequestFrameSize() int {
	return op.requestFrameSize
}

// NewRequest builds a request message with a sized initial frame, the
// message type written, and the operation's retry metadata attached. The
// correlation id is written later by the invocation layer.
func (op *Operation) NewRequest() *proto.Message {
	content := make([]byte, op.requestFrameSize)
	bits.WriteUint16(content, proto.TypeFieldOffset, op.RequestType)

	m := proto.NewMessageForEncode()
	m.Add(proto.NewFrameWithFlags(content, proto.UnfragmentedFlags))
	m.Retryable = op.Retryable
	m.AcquiresResource = op.AcquiresResource
	m.OperationName = op.Name
	return m
}

// NewResponse builds a response message carrying only the header, for
// operations without fixed response fields.
func (op *Operation) NewResponse() *proto.Message {
	content := make([]byte, proto.ResponseHeaderSize)
	bits.WriteUint16(content, proto.TypeFieldOffset, op.ResponseType)

	m := proto.NewMessageForEncode()
	m.Add(proto.NewFrameWithFlags(content, proto.UnfragmentedFlags))
	m.OperationName = op.Name
	return m
}

// NewEvent builds an event message of the given type, flagged as an event
// on its initial frame.
func NewEvent(eventType uint16) *proto.Message {
	content := make([]byte, proto.RequestHeaderSize)
	bits.WriteUint16(content, proto.TypeFieldOffset, eventType)

	m := proto.NewMessageForEncode()
	m.Add(proto.NewFrameWithFlags(content, proto.UnfragmentedFlags|proto.IsEventFlag))
	return m
}

// CheckRequestFrame verifies a received initial frame is long enough for
// the declared fixed-field table. A short frame means the peers disagree on
// the operation's schema.
func (op *Operation) CheckRequestFrame(f proto.Frame) error {
	if len(f.Content) < op.requestFrameSize {
		return fmt.Errorf("%w: %s: have %d bytes, need %d",
			proto.ErrOffsetOutOfBounds, op.Name, len(f.Content), op.requestFrameSize)
	}
	return nil
}

// Registry resolves received message types to their operations.
type Registry struct {
	mu        sync.RWMutex
	byRequest map[uint16]*Operation
}

func NewRegistry() *Registry {
	return &Registry{byRequest: make(map[uint16]*Operation)}
}

func (r *Registry) Register(op *Operation) error {
	if err := op.compile(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, dup := r.byRequest[op.RequestType]; dup {
		return fmt.Errorf("schema: request type %d already registered to %s", op.RequestType, existing.Name)
	}
	r.byRequest[op.RequestType] = op
	return nil
}

// LookupRequest resolves a request message type, or reports
// proto.ErrUnknownMessageType when no operation claims it.
func (r *Registry) LookupRequest(messageType uint16) (*Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.byRequest[messageType]
	if !ok {
		return nil, fmt.Errorf("%w: %d", proto.ErrUnknownMessageType, messageType)
	}
	return op, nil
}

// Operations lists the registered operations sorted by request type.
func (r *Registry) Operations() []*Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Operation, 0, len(r.byRequest))
	for _, op := range r.byRequest {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RequestType < out[j].RequestType
	})
	return out
}
