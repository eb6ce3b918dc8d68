// Package proto owns the client-protocol framing substrate.
//
// Ownership boundary:
// - frame and message primitives (flags, header layout, retry copy)
// - per-frame wire read/write
// - decode cursor shared by all structural codecs
package proto
