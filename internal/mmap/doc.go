// Package mmap maps snapshot files read-only into memory.
//
//	m, err := mmap.Open("animals.snap")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// On Unix the mapping uses mmap(2) and madvise(2); on Windows it uses
// CreateFileMapping/MapViewOfFile and access hints are ignored.
//
// Bytes must not be used after Close returns. Close is idempotent.
package mmap
