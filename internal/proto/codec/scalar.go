package codec

import (
	"github.com/maduhu/hazelcast/internal/proto"
)

// EncodeString appends one frame holding the UTF-8 bytes of s. The frame
// boundary is the value boundary; there is no length prefix.
func EncodeString(m *proto.Message, s string) {
	m.Add(proto.NewFrame([]byte(s)))
}

func DecodeString(it *proto.ForwardIterator) (string, error) {
	f, err := it.Next()
	if err != nil {
		return "", err
	}
	return string(f.Content), nil
}

func EncodeNullableString(m *proto.Message, s *string) {
	EncodeNullable(m, s, EncodeString)
}

func DecodeNullableString(it *proto.ForwardIterator) (*string, error) {
	return DecodeNullable(it, DecodeString)
}

// EncodeByteArray appends one frame aliasing b. The caller must not mutate b
// after the message may be retried or handed to the transport.
func EncodeByteArray(m *proto.Message, b []byte) {
	if b == nil {
		b = []byte{}
	}
	m.Add(proto.NewFrame(b))
}

func DecodeByteArray(it *proto.ForwardIterator) ([]byte, error) {
	f, err := it.Next()
	if err != nil {
		return nil, err
	}
	return f.Content, nil
}

func EncodeNullableByteArray(m *proto.Message, b []byte) {
	if b == nil {
		m.Add(proto.NullFrame)
		return
	}
	EncodeByteArray(m, b)
}

func DecodeNullableByteArray(it *proto.ForwardIterator) ([]byte, error) {
	isNull, err := NextFrameIsNullFrame(it)
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}
	return DecodeByteArray(it)
}
