package codec

import "github.com/maduhu/hazelcast/internal/proto"

// EncodeRecord wraps a nested record's field encoding in begin/end frames.
// Fields are appended in schema order by enc.
func EncodeRecord(m *proto.Message, enc func(*proto.Message)) {
	m.Add(proto.BeginFrame)
	enc(m)
	m.Add(proto.EndFrame)
}

// DecodeRecord consumes the begin frame, decodes the known fields, then
// fast-forwards over any fields appended by a newer peer and consumes the
// end frame.
func DecodeRecord[T any](it *proto.ForwardIterator, dec func(*proto.ForwardIterator) (T, error)) (T, error) {
	var zero T
	if err := expectBeginFrame(it); err != nil {
		return zero, err
	}
	v, err := dec(it)
	if err != nil {
		return zero, err
	}
	if err := FastForwardToEndFrame(it); err != nil {
		return zero, err
	}
	return v, nil
}
