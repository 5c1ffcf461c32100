package bucket

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

// Config describes how values are indexed.
type Config[V any] struct {
	// Key returns the raw (not yet normalized) bucket key of a value.
	Key func(V) string
	// ID returns the unique identifier of a value.
	ID func(V) string
	// Row returns the row number of a value, used for the posting bitmaps.
	Row func(V) uint32
	// Sentinel replaces keys that are empty after normalization.
	Sentinel string
}

// KeyCount pairs a normalized key with the size of its bucket.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// BuildStats summarizes a Build call.
type BuildStats struct {
	Total        int
	DistinctKeys int
	Duration     time.Duration
	BuiltAt      time.Time
}

// Stats describes the current contents of the index.
type Stats struct {
	Total         int
	DistinctKeys  int
	AveragePerKey float64
	BuildDuration time.Duration
	BuiltAt       time.Time
}

type bucket[V any] struct {
	items []V
	rows  *roaring.Bitmap
}

// Index groups values by normalized key.
type Index[V any] struct {
	cfg Config[V]

	buckets map[string]*bucket[V]
	// locator maps a value's identifier to the key of the bucket holding it.
	locator map[string]string
	total   int

	buildDuration time.Duration
	builtAt       time.Time
}

// New creates an empty index.
func New[V any](cfg Config[V]) *Index[V] {
	return &Index[V]{
		cfg:     cfg,
		buckets: make(map[string]*bucket[V]),
		locator: make(map[string]string),
	}
}

// Normalize lower-cases and trims s. An empty result is replaced by sentinel.
func Normalize(s, sentinel string) string {
	n := strings.ToLower(strings.TrimSpace(s))
	if n == "" {
		return sentinel
	}
	return n
}

// normalizeQuery is Normalize without the sentinel: an empty query matches nothing.
func normalizeQuery(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Build clears the index and adds every value.
func (ix *Index[V]) Build(values []V) BuildStats {
	start := time.Now()
	ix.Clear()

	for _, v := range values {
		ix.add(v)
	}

	ix.buildDuration = time.Since(start)
	ix.builtAt = time.Now()

	return BuildStats{
		Total:        ix.total,
		DistinctKeys: len(ix.buckets),
		Duration:     ix.buildDuration,
		BuiltAt:      ix.builtAt,
	}
}

// Clear removes all buckets and resets the statistics.
func (ix *Index[V]) Clear() {
	ix.buckets = make(map[string]*bucket[V])
	ix.locator = make(map[string]string)
	ix.total = 0
	ix.buildDuration = 0
	ix.builtAt = time.Time{}
}

// Len returns the number of indexed values.
func (ix *Index[V]) Len() int {
	return ix.total
}

// IsEmpty reports whether the index holds no buckets.
func (ix *Index[V]) IsEmpty() bool {
	return len(ix.buckets) == 0
}

// Exact returns a copy of the bucket for key. An empty key or a key without a
// bucket yields an empty result.
func (ix *Index[V]) Exact(key string) []V {
	q := normalizeQuery(key)
	if q == "" {
		return []V{}
	}
	b, ok := ix.buckets[q]
	if !ok {
		return []V{}
	}
	return slices.Clone(b.items)
}

// ExactMany returns the concatenation of Exact for each key, in argument order.
// Keys that normalize to the same bucket contribute it once.
func (ix *Index[V]) ExactMany(keys []string) []V {
	out := []V{}
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		q := normalizeQuery(key)
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		if b, ok := ix.buckets[q]; ok {
			out = append(out, b.items...)
		}
	}
	return out
}

// SearchSubstring returns the contents of every bucket whose key contains
// fragment, concatenated in ascending key order.
func (ix *Index[V]) SearchSubstring(fragment string) []V {
	out := []V{}
	for _, key := range ix.matchingKeys(fragment) {
		out = append(out, ix.buckets[key].items...)
	}
	return out
}

// Postings returns a copy of the row bitmap for key. The result is empty, never
// nil, when key has no bucket.
func (ix *Index[V]) Postings(key string) *roaring.Bitmap {
	q := normalizeQuery(key)
	if b, ok := ix.buckets[q]; ok && q != "" {
		return b.rows.Clone()
	}
	return roaring.New()
}

// PostingsSubstring returns the union of the row bitmaps of every bucket whose
// key contains fragment.
func (ix *Index[V]) PostingsSubstring(fragment string) *roaring.Bitmap {
	keys := ix.matchingKeys(fragment)
	if len(keys) == 0 {
		return roaring.New()
	}
	bms := make([]*roaring.Bitmap, 0, len(keys))
	for _, key := range keys {
		bms = append(bms, ix.buckets[key].rows)
	}
	return roaring.FastOr(bms...)
}

func (ix *Index[V]) matchingKeys(fragment string) []string {
	q := normalizeQuery(fragment)
	if q == "" {
		return nil
	}
	var keys []string
	for key := range ix.buckets {
		if strings.Contains(key, q) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Add appends v to the bucket for its key. A value whose identifier is already
// indexed is moved instead, so that each identifier lives in exactly one bucket.
func (ix *Index[V]) Add(v V) {
	if _, ok := ix.locator[ix.cfg.ID(v)]; ok {
		ix.remove(ix.cfg.ID(v))
	}
	ix.add(v)
}

func (ix *Index[V]) add(v V) {
	key := Normalize(ix.cfg.Key(v), ix.cfg.Sentinel)
	b, ok := ix.buckets[key]
	if !ok {
		b = &bucket[V]{rows: roaring.New()}
		ix.buckets[key] = b
	}
	b.items = append(b.items, v)
	b.rows.Add(ix.cfg.Row(v))
	ix.locator[ix.cfg.ID(v)] = key
	ix.total++
}

// Remove deletes the value with the given identifier. The bucket is dropped when
// it becomes empty.
func (ix *Index[V]) Remove(id string) bool {
	return ix.remove(id)
}

func (ix *Index[V]) remove(id string) bool {
	key, ok := ix.locator[id]
	if !ok {
		return false
	}
	b := ix.buckets[key]

	pos := slices.IndexFunc(b.items, func(v V) bool { return ix.cfg.ID(v) == id })
	if pos < 0 {
		// Locator and bucket disagree; drop the stale locator entry.
		delete(ix.locator, id)
		return false
	}

	b.rows.Remove(ix.cfg.Row(b.items[pos]))
	b.items = slices.Delete(b.items, pos, pos+1)
	delete(ix.locator, id)
	ix.total--

	if len(b.items) == 0 {
		delete(ix.buckets, key)
	}
	return true
}

// Update replaces the value with identifier id by v, moving it to the bucket for
// v's key. It is a no-op returning false when id is not indexed.
func (ix *Index[V]) Update(id string, v V) bool {
	if !ix.remove(id) {
		return false
	}
	ix.add(v)
	return true
}

// Contains reports whether a value with identifier id is indexed.
func (ix *Index[V]) Contains(id string) bool {
	_, ok := ix.locator[id]
	return ok
}

// Counts returns every key with its bucket size, largest first. Ties are broken
// by ascending key.
func (ix *Index[V]) Counts() []KeyCount {
	counts := make([]KeyCount, 0, len(ix.buckets))
	for key, b := range ix.buckets {
		counts = append(counts, KeyCount{Key: key, Count: len(b.items)})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Key < counts[j].Key
	})
	return counts
}

// Keys returns the distinct keys in ascending order.
func (ix *Index[V]) Keys() []string {
	keys := make([]string, 0, len(ix.buckets))
	for key := range ix.buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Stats returns aggregate statistics.
func (ix *Index[V]) Stats() Stats {
	s := Stats{
		Total:         ix.total,
		DistinctKeys:  len(ix.buckets),
		BuildDuration: ix.buildDuration,
		BuiltAt:       ix.builtAt,
	}
	if s.DistinctKeys > 0 {
		s.AveragePerKey = float64(s.Total) / float64(s.DistinctKeys)
	}
	return s
}
