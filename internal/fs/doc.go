// Package fs abstracts the file operations used to publish blobs atomically,
// so that tests can inject I/O failures.
//
// Production code uses [Default], which is [LocalFS]. Tests wrap it in a
// [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailOnSync: true})
//
// Operations take no context.Context: local file operations cannot be
// interrupted at the syscall level.
package fs
