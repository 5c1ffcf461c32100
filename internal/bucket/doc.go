// Package bucket implements a hash-bucket secondary index: records are grouped
// under a normalized string key (lower-cased, trimmed) and can be retrieved by
// exact key or by substring of the key.
//
// The index is generic over the stored value; a Config tells it how to extract
// the raw key, the record identifier and the record's row number. Alongside the
// ordered bucket contents every bucket keeps a roaring bitmap of row numbers,
// which lets the caller intersect results from several indexes without
// materializing them.
//
// Empty buckets are removed as soon as their last record leaves. An Index is not
// safe for concurrent mutation; the owning cache serializes writers.
package bucket
