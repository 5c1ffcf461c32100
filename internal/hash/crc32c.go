package hash

import (
	"hash"
	"hash/crc32"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// NewCRC32C returns a streaming CRC32-Castagnoli hash.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// CRC32C computes the CRC32-Castagnoli checksum of parts written in order.
func CRC32C(parts ...[]byte) uint32 {
	h := NewCRC32C()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	return h.Sum32()
}

// Verify reports whether parts match the expected checksum.
func Verify(want uint32, parts ...[]byte) bool {
	return CRC32C(parts...) == want
}
