// Package codec flattens variable-length and nested values onto a message's
// frame sequence and decodes them back with a forward-only cursor.
//
// Ownership boundary:
// - scalar frames (strings, byte arrays, decimals)
// - null markers and nullable wrappers
// - begin/end delimited composites and multi-frame lists
package codec
