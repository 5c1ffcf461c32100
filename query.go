package animalcache

import (
	"slices"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/animalcache/internal/bucket"
	"github.com/hupe1980/animalcache/internal/cache"
	"github.com/hupe1980/animalcache/model"
)

// Filter combines category and name constraints. Empty fields are ignored;
// the set fields are intersected.
type Filter struct {
	// Categories matches records whose breed equals any of the values.
	Categories []string
	// CategorySubstring matches records whose breed contains the fragment.
	CategorySubstring string
	// Names matches records whose name equals any of the values.
	Names []string
	// NameSubstring matches records whose name contains the fragment.
	NameSubstring string
}

// IsEmpty reports whether f sets no constraint.
func (f Filter) IsEmpty() bool {
	return len(f.Categories) == 0 && len(f.Names) == 0 &&
		strings.TrimSpace(f.CategorySubstring) == "" && strings.TrimSpace(f.NameSubstring) == ""
}

// LookupByID returns the record with the given id. comparisons is the number of
// tree nodes examined; it is reported on misses too. An unknown id is not an
// error.
func (c *Cache) LookupByID(id string) (rec model.Record, comparisons int, found bool, err error) {
	start := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, err := c.readable()
	if err != nil {
		return model.Record{}, 0, false, err
	}

	e, comparisons, ok := idx.tree.Search(id)
	if !ok {
		c.metrics.RecordLookup("id", 0, time.Since(start))
		return model.Record{}, comparisons, false, nil
	}
	c.metrics.RecordLookup("id", 1, time.Since(start))
	return e.rec.Clone(), comparisons, true, nil
}

// LookupByCategory returns the records whose breed matches category after
// normalization, in bucket order. Records without a breed are found under
// CategorySentinel. An empty category matches nothing.
func (c *Cache) LookupByCategory(category string) ([]model.Record, error) {
	return c.read("category", func(idx *indexSet) []entry {
		return idx.categories.Exact(category)
	})
}

// LookupByCategories returns the union of the given categories' buckets.
func (c *Cache) LookupByCategories(categories ...string) ([]model.Record, error) {
	return c.read("categories", func(idx *indexSet) []entry {
		return idx.categories.ExactMany(categories)
	})
}

// SearchCategorySubstring returns the records whose normalized breed contains
// fragment, grouped by breed in ascending order. An empty fragment matches
// nothing.
func (c *Cache) SearchCategorySubstring(fragment string) ([]model.Record, error) {
	return c.read("category_substring", func(idx *indexSet) []entry {
		return c.cachedSubstring(cache.KindCategorySubstring, fragment, idx.categories)
	})
}

// LookupByName returns the records whose name matches after normalization.
// Unnamed records are found under NameSentinel.
func (c *Cache) LookupByName(name string) ([]model.Record, error) {
	return c.read("name", func(idx *indexSet) []entry {
		return idx.names.Exact(name)
	})
}

// SearchNameSubstring returns the records whose normalized name contains
// fragment. An empty fragment matches nothing.
func (c *Cache) SearchNameSubstring(fragment string) ([]model.Record, error) {
	return c.read("name_substring", func(idx *indexSet) []entry {
		return c.cachedSubstring(cache.KindNameSubstring, fragment, idx.names)
	})
}

// All returns every record in ascending id order.
func (c *Cache) All() ([]model.Record, error) {
	return c.read("all", func(idx *indexSet) []entry {
		return idx.tree.InOrder()
	})
}

// Query returns the records matching every constraint in f, in ascending id
// order. An empty filter returns every record.
func (c *Cache) Query(f Filter) ([]model.Record, error) {
	return c.read("query", func(idx *indexSet) []entry {
		if f.IsEmpty() {
			return idx.tree.InOrder()
		}

		var acc *roaring.Bitmap
		intersect := func(bm *roaring.Bitmap) {
			if acc == nil {
				acc = bm
				return
			}
			acc.And(bm)
		}
		if len(f.Categories) > 0 {
			intersect(unionPostings(idx.categories, f.Categories))
		}
		if strings.TrimSpace(f.CategorySubstring) != "" {
			intersect(idx.categories.PostingsSubstring(f.CategorySubstring))
		}
		if len(f.Names) > 0 {
			intersect(unionPostings(idx.names, f.Names))
		}
		if strings.TrimSpace(f.NameSubstring) != "" {
			intersect(idx.names.PostingsSubstring(f.NameSubstring))
		}

		out := make([]entry, 0, acc.GetCardinality())
		it := acc.Iterator()
		for it.HasNext() {
			id, ok := idx.rows.ID(it.Next())
			if !ok {
				continue
			}
			if e, _, ok := idx.tree.Search(id); ok {
				out = append(out, e)
			}
		}
		slices.SortFunc(out, func(a, b entry) int { return strings.Compare(a.rec.ID, b.rec.ID) })
		return out
	})
}

// CategoryCounts returns the breeds ordered by record count, largest first. A
// positive limit truncates the result.
func (c *Cache) CategoryCounts(limit int) ([]KeyCount, error) {
	return c.counts(limit, func(idx *indexSet) []KeyCount { return idx.categories.Counts() })
}

// NameCounts returns the names ordered by record count, largest first.
func (c *Cache) NameCounts(limit int) ([]KeyCount, error) {
	return c.counts(limit, func(idx *indexSet) []KeyCount { return idx.names.Counts() })
}

// Categories returns the distinct normalized breeds in ascending order.
func (c *Cache) Categories() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, err := c.readable()
	if err != nil {
		return nil, err
	}
	return idx.categories.Keys(), nil
}

func (c *Cache) counts(limit int, fn func(*indexSet) []KeyCount) ([]KeyCount, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, err := c.readable()
	if err != nil {
		return nil, err
	}
	counts := fn(idx)
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

// read runs fn against the served snapshot. The read lock is held until the
// records are copied out, since hooks mutate the indexes in place.
func (c *Cache) read(kind string, fn func(*indexSet) []entry) ([]model.Record, error) {
	start := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, err := c.readable()
	if err != nil {
		return nil, err
	}

	entries := fn(idx)
	out := make([]model.Record, len(entries))
	for i, e := range entries {
		out[i] = e.rec.Clone()
	}
	c.metrics.RecordLookup(kind, len(out), time.Since(start))
	return out, nil
}

// readable must be called with c.mu held.
func (c *Cache) readable() (*indexSet, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if c.idx == nil {
		return nil, ErrNotReady
	}
	return c.idx, nil
}

func (c *Cache) cachedSubstring(kind cache.Kind, fragment string, ix *bucket.Index[entry]) []entry {
	if c.results == nil {
		return ix.SearchSubstring(fragment)
	}

	key := cache.Key{Kind: kind, Generation: c.generation, Query: bucket.Normalize(fragment, "")}
	if hit, ok := c.results.Get(key); ok {
		return hit
	}
	res := ix.SearchSubstring(fragment)
	c.results.Set(key, res)
	return res
}

func unionPostings(ix *bucket.Index[entry], keys []string) *roaring.Bitmap {
	bm := roaring.New()
	for _, k := range keys {
		bm.Or(ix.Postings(k))
	}
	return bm
}
