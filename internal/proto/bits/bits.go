// Package bits reads and writes fixed-size primitives at explicit byte
// offsets inside frame content. All multi-byte values are little-endian.
//
// Offsets are computed from static field tables; an offset that does not fit
// the buffer is a caller bug, and every accessor panics on it rather than
// corrupt adjacent fields.
package bits

import (
	"encoding/binary"
	"fmt"
)

const (
	BoolSizeInBytes   = 1
	Uint16SizeInBytes = 2
	Int32SizeInBytes  = 4
	Int64SizeInBytes  = 8
	UUIDSizeInBytes   = 16
)

// UUID is a 128-bit identifier in wire byte order.
type UUID [UUIDSizeInBytes]byte

func (u UUID) String() string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", u[0:4], u[4:6], u[6:8], u[8:10], u[10:16])
}

func mustFit(b []byte, offset, width int) {
	if offset < 0 || offset+width > len(b) {
		panic(fmt.Sprintf("bits: offset %d width %d out of range for %d-byte buffer", offset, width, len(b)))
	}
}

func WriteBool(b []byte, offset int, v bool) {
	mustFit(b, offset, BoolSizeInBytes)
	if v {
		b[offset] = 1
	} else {
		b[offset] = 0
	}
}

func ReadBool(b []byte, offset int) bool {
	mustFit(b, offset, BoolSizeInBytes)
	return b[offset] != 0
}

func WriteUint16(b []byte, offset int, v uint16) {
	mustFit(b, offset, Uint16SizeInBytes)
	binary.LittleEndian.PutUint16(b[offset:], v)
}

func ReadUint16(b []byte, offset int) uint16 {
	mustFit(b, offset, Uint16SizeInBytes)
	return binary.LittleEndian.Uint16(b[offset:])
}

func WriteInt32(b []byte, offset int, v int32) {
	mustFit(b, offset, Int32SizeInBytes)
	binary.LittleEndian.PutUint32(b[offset:], uint32(v))
}

func ReadInt32(b []byte, offset int) int32 {
	mustFit(b, offset, Int32SizeInBytes)
	return int32(binary.LittleEndian.Uint32(b[offset:]))
}

func WriteInt64(b []byte, offset int, v int64) {
	mustFit(b, offset, Int64SizeInBytes)
	binary.LittleEndian.PutUint64(b[offset:], uint64(v))
}

func ReadInt64(b []byte, offset int) int64 {
	mustFit(b, offset, Int64SizeInBytes)
	return int64(binary.LittleEndian.Uint64(b[offset:]))
}

func WriteUUID(b []byte, offset int, v UUID) {
	mustFit(b, offset, UUIDSizeInBytes)
	copy(b[offset:], v[:])
}

func ReadUUID(b []byte, offset int) UUID {
	mustFit(b, offset, UUIDSizeInBytes)
	var u UUID
	copy(u[:], b[offset:])
	return u
}
