package proto

import "errors"

var (
	ErrTruncated          = errors.New("proto: truncated message")
	ErrMalformedStructure = errors.New("proto: malformed data structure")
	ErrOffsetOutOfBounds  = errors.New("proto: fixed field offset beyond initial frame")
	ErrUnknownMessageType = errors.New("proto: unknown message type")
	ErrFrameTooLarge      = errors.New("proto: frame exceeds limit")
	ErrEmptyMessage       = errors.New("proto: message has no frames")
)
