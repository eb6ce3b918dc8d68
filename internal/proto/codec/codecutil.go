package codec

import (
	"github.com/maduhu/hazelcast/internal/proto"
)

// EncodeNullable appends the canonical null frame for a nil value, otherwise
// delegates to the value's encoder.
func EncodeNullable[T any](m *proto.Message, v *T, enc func(*proto.Message, T)) {
	if v == nil {
		m.Add(proto.NullFrame)
		return
	}
	enc(m, *v)
}

// DecodeNullable consumes the null frame if it is next, returning nil;
// otherwise it delegates to the value's decoder.
func DecodeNullable[T any](it *proto.ForwardIterator, dec func(*proto.ForwardIterator) (T, error)) (*T, error) {
	isNull, err := NextFrameIsNullFrame(it)
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}
	v, err := dec(it)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// NextFrameIsNullFrame reports whether the next frame is the null marker,
// consuming it when it is.
func NextFrameIsNullFrame(it *proto.ForwardIterator) (bool, error) {
	f, err := it.Peek()
	if err != nil {
		return false, err
	}
	if !f.IsNullFrame() {
		return false, nil
	}
	if _, err := it.Next(); err != nil {
		return false, err
	}
	return true, nil
}

// NextFrameIsEndFrame reports whether the next frame closes the current data
// structure. It never consumes.
func NextFrameIsEndFrame(it *proto.ForwardIterator) (bool, error) {
	f, err := it.Peek()
	if err != nil {
		return false, err
	}
	return f.IsEndFrame(), nil
}

// FastForwardToEndFrame consumes frames up to and including the end frame
// that closes the structure whose begin frame was already consumed. Nested
// structures are skipped whole by tracking depth.
func FastForwardToEndFrame(it *proto.ForwardIterator) error {
	depth := 1
	for {
		f, err := it.Next()
		if err != nil {
			return proto.ErrMalformedStructure
		}
		if f.IsBeginFrame() {
			depth++
			continue
		}
		if f.IsEndFrame() {
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

// expectBeginFrame consumes the next frame and requires it to open a data
// structure. The null marker must already have been ruled out by the caller.
func expectBeginFrame(it *proto.ForwardIterator) error {
	f, err := it.Next()
	if err != nil {
		return err
	}
	if !f.IsBeginFrame() {
		return proto.ErrMalformedStructure
	}
	return nil
}

// expectEndFrame consumes the frame closing the current structure.
func expectEndFrame(it *proto.ForwardIterator) error {
	f, err := it.Next()
	if err != nil {
		return proto.ErrTruncated
	}
	if !f.IsEndFrame() {
		return proto.ErrMalformedStructure
	}
	return nil
}
