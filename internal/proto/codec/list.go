package codec

import (
	"github.com/maduhu/hazelcast/internal/proto"
	"github.com/maduhu/hazelcast/internal/proto/bits"
)

// EncodeListMultiFrame appends a begin frame, each element's encoding in
// order, then an end frame. Element count is never written; decode recovers
// it by scanning to the matching end frame.
func EncodeListMultiFrame[T any](m *proto.Message, items []T, enc func(*proto.Message, T)) {
	m.Add(proto.BeginFrame)
	for _, item := range items {
		enc(m, item)
	}
	m.Add(proto.EndFrame)
}

// EncodeNullableListMultiFrame encodes a nil slice as the null frame.
func EncodeNullableListMultiFrame[T any](m *proto.Message, items []T, enc func(*proto.Message, T)) {
	if items == nil {
		m.Add(proto.NullFrame)
		return
	}
	EncodeListMultiFrame(m, items, enc)
}

// EncodeListMultiFrameContainsNullable encodes each element through the
// nullable wrapper, so individual elements may be null inside a present list.
func EncodeListMultiFrameContainsNullable[T any](m *proto.Message, items []*T, enc func(*proto.Message, T)) {
	m.Add(proto.BeginFrame)
	for _, item := range items {
		EncodeNullable(m, item, enc)
	}
	m.Add(proto.EndFrame)
}

// DecodeListMultiFrame consumes the begin frame, decodes elements until the
// matching end frame, then consumes it. An empty list decodes to an empty,
// non-nil slice.
func DecodeListMultiFrame[T any](it *proto.ForwardIterator, dec func(*proto.ForwardIterator) (T, error)) ([]T, error) {
	if err := expectBeginFrame(it); err != nil {
		return nil, err
	}
	items := make([]T, 0)
	for {
		atEnd, err := NextFrameIsEndFrame(it)
		if err != nil {
			return nil, err
		}
		if atEnd {
			break
		}
		item, err := dec(it)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := expectEndFrame(it); err != nil {
		return nil, err
	}
	return items, nil
}

// DecodeNullableListMultiFrame returns a nil slice for the null frame.
func DecodeNullableListMultiFrame[T any](it *proto.ForwardIterator, dec func(*proto.ForwardIterator) (T, error)) ([]T, error) {
	isNull, err := NextFrameIsNullFrame(it)
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}
	return DecodeListMultiFrame(it, dec)
}

// DecodeListMultiFrameContainsNullable decodes a list whose elements may
// individually be null.
func DecodeListMultiFrameContainsNullable[T any](it *proto.ForwardIterator, dec func(*proto.ForwardIterator) (T, error)) ([]*T, error) {
	return DecodeListMultiFrame(it, func(it *proto.ForwardIterator) (*T, error) {
		return DecodeNullable(it, dec)
	})
}

// Fixed-size-element lists pack all elements into a single frame; the
// element count is the frame length divided by the element width.

func EncodeListInt32(m *proto.Message, items []int32) {
	content := make([]byte, len(items)*bits.Int32SizeInBytes)
	for i, v := range items {
		bits.WriteInt32(content, i*bits.Int32SizeInBytes, v)
	}
	m.Add(proto.NewFrame(content))
}

func DecodeListInt32(it *proto.ForwardIterator) ([]int32, error) {
	f, err := it.Next()
	if err != nil {
		return nil, err
	}
	if len(f.Content)%bits.Int32SizeInBytes != 0 {
		return nil, proto.ErrMalformedStructure
	}
	items := make([]int32, len(f.Content)/bits.Int32SizeInBytes)
	for i := range items {
		items[i] = bits.ReadInt32(f.Content, i*bits.Int32SizeInBytes)
	}
	return items, nil
}

func EncodeListInt64(m *proto.Message, items []int64) {
	content := make([]byte, len(items)*bits.Int64SizeInBytes)
	for i, v := range items {
		bits.WriteInt64(content, i*bits.Int64SizeInBytes, v)
	}
	m.Add(proto.NewFrame(content))
}

func DecodeListInt64(it *proto.ForwardIterator) ([]int64, error) {
	f, err := it.Next()
	if err != nil {
		return nil, err
	}
	if len(f.Content)%bits.Int64SizeInBytes != 0 {
		return nil, proto.ErrMalformedStructure
	}
	items := make([]int64, len(f.Content)/bits.Int64SizeInBytes)
	for i := range items {
		items[i] = bits.ReadInt64(f.Content, i*bits.Int64SizeInBytes)
	}
	return items, nil
}

func EncodeListUUID(m *proto.Message, items []bits.UUID) {
	content := make([]byte, len(items)*bits.UUIDSizeInBytes)
	for i, v := range items {
		bits.WriteUUID(content, i*bits.UUIDSizeInBytes, v)
	}
	m.Add(proto.NewFrame(content))
}

func DecodeListUUID(it *proto.ForwardIterator) ([]bits.UUID, error) {
	f, err := it.Next()
	if err != nil {
		return nil, err
	}
	if len(f.Content)%bits.UUIDSizeInBytes != 0 {
		return nil, proto.ErrMalformedStructure
	}
	items := make([]bits.UUID, len(f.Content)/bits.UUIDSizeInBytes)
	for i := range items {
		items[i] = bits.ReadUUID(f.Content, i*bits.UUIDSizeInBytes)
	}
	return items, nil
}
