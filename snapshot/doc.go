// Package snapshot implements the binary container used to ship record
// snapshots through blob storage and local files.
//
// # Layout
//
//	offset  size  field
//	0       4     magic "ANS1"
//	4       2     format version
//	6       1     compression (0=none, 1=lz4, 2=zstd)
//	7       1     codec name length n
//	8       4     record count
//	12      4     uncompressed body size
//	16      4     stored body size
//	20      4     CRC32C of bytes 4..20, the codec name and the stored body
//	24      n     codec name
//	24+n    ...   body
//
// The body is the codec encoding of a []model.Record, optionally compressed.
// All integers are little-endian. The checksum covers the header fields, so a
// damaged size is rejected before any buffer is sized from it.
package snapshot
