// Package cache provides a bounded LRU for query results.
//
// Results are keyed by the index they came from and the normalized query. The
// owner invalidates entries whenever the underlying index changes; the cache
// itself has no notion of staleness.
package cache
