// Binary encoding for vocabulary blobs.
//
// Patterns are stored as a compact length-prefixed list rather than JSON so
// that arbitrary bytes (quotes, control characters) round-trip untouched and
// the pattern order, which defines pattern ids, is explicit.
//
// Format (little-endian):
//
//	patternCount: uint32
//	per pattern:
//	  len:   uint16
//	  bytes: [len]byte
package bbolt

import (
	"encoding/binary"
	"fmt"
)

// maxPatternLen is the longest pattern a uint16 length prefix can hold.
const maxPatternLen = 65535

// encodePatterns encodes an ordered pattern list. A single buffer is
// pre-allocated to avoid repeated growth.
func encodePatterns(patterns []string) ([]byte, error) {
	totalSize := 4
	for _, p := range patterns {
		totalSize += 2 + len(p)
	}

	buf := make([]byte, totalSize)
	offset := 0

	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(patterns)))
	offset += 4

	for i, p := range patterns {
		if len(p) > maxPatternLen {
			return nil, fmt.Errorf("pattern %d too long: %d bytes", i, len(p))
		}
		binary.LittleEndian.PutUint16(buf[offset:], uint16(len(p)))
		offset += 2
		copy(buf[offset:], p)
		offset += len(p)
	}

	return buf, nil
}

// decodePatterns decodes a pattern list. Every read is bounds-checked to
// avoid panics on corrupt data.
func decodePatterns(data []byte) ([]string, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("pattern list too short: %d bytes", len(data))
	}

	offset := 0
	count := binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	// Each pattern needs at least its length prefix.
	if uint64(count)*2 > uint64(len(data)-offset) {
		return nil, fmt.Errorf("pattern count %d exceeds data size %d", count, len(data))
	}

	patterns := make([]string, count)
	for i := uint32(0); i < count; i++ {
		if offset+2 > len(data) {
			return nil, fmt.Errorf("truncated at pattern %d length (offset %d)", i, offset)
		}
		n := int(binary.LittleEndian.Uint16(data[offset:]))
		offset += 2

		if offset+n > len(data) {
			return nil, fmt.Errorf("truncated at pattern %d (offset %d, need %d)", i, offset, n)
		}
		patterns[i] = string(data[offset : offset+n])
		offset += n
	}

	if offset != len(data) {
		return nil, fmt.Errorf("trailing %d bytes after %d patterns", len(data)-offset, count)
	}
	return patterns, nil
}
