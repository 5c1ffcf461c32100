package animalcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/hupe1980/animalcache/internal/bst"
	"github.com/hupe1980/animalcache/internal/bucket"
	"github.com/hupe1980/animalcache/internal/cache"
	"github.com/hupe1980/animalcache/internal/rowid"
	"github.com/hupe1980/animalcache/model"
	"github.com/hupe1980/animalcache/source"
)

const (
	// CategorySentinel is the category key of records without a breed.
	CategorySentinel = "unknown"
	// NameSentinel is the name key of records without a name.
	NameSentinel = "unnamed"
)

// Cache answers lookups over a snapshot of a source.
//
// A Cache is safe for concurrent use.
type Cache struct {
	src     source.Source
	opts    options
	log     *Logger
	metrics MetricsCollector

	mu         sync.RWMutex
	idx        *indexSet // nil until the first successful build
	phase      Phase
	generation uint64 // generation of idx
	nextGen    uint64
	pending    []mutation
	lastBuild  BuildStats

	flight    singleflight.Group
	requested atomic.Uint64
	limiter   *rate.Limiter
	results   *cache.LRU[[]entry]

	closed      atomic.Bool
	stopRefresh context.CancelFunc
	refreshDone chan struct{}
}

var _ source.Listener = (*Cache)(nil)

// New creates an uninitialized cache over src. No data is fetched until
// Initialize or Rebuild is called, unless WithAutoRebuild is set.
func New(src source.Source, optFns ...Option) (*Cache, error) {
	if src == nil {
		return nil, errors.New("animalcache: source is required")
	}

	opts := applyOptions(optFns)

	c := &Cache{
		src:     src,
		opts:    opts,
		log:     opts.logger,
		metrics: opts.metricsCollector,
		phase:   PhaseUninitialized,
		limiter: rate.NewLimiter(opts.rebuildLimit, max(opts.rebuildBurst, 1)),
	}
	if opts.resultCacheSize > 0 {
		c.results = cache.NewLRU[[]entry](opts.resultCacheSize)
	}
	if opts.autoRebuild > 0 {
		c.startRefresher(opts.autoRebuild)
	}
	return c, nil
}

// Close releases the indexes and stops the background refresher. Reads and
// builds fail with ErrClosed afterwards. Close is idempotent.
func (c *Cache) Close() error {
	if c == nil || c.closed.Swap(true) {
		return nil
	}

	if c.stopRefresh != nil {
		c.stopRefresh()
		<-c.refreshDone
	}

	c.mu.Lock()
	c.idx = nil
	c.pending = nil
	c.phase = PhaseUninitialized
	c.mu.Unlock()

	if c.results != nil {
		c.results.Purge()
	}
	c.log.Info("cache closed")
	return nil
}

// entry is the value stored by every index.
type entry struct {
	rec model.Record
	row uint32
}

func entryID(e entry) string       { return e.rec.ID }
func entryCategory(e entry) string { return e.rec.Category }
func entryName(e entry) string     { return e.rec.Name }
func entryRow(e entry) uint32      { return e.row }

// indexSet is one consistent snapshot: the three indexes always hold the same
// set of records.
type indexSet struct {
	tree       *bst.Tree[entry]
	categories *bucket.Index[entry]
	names      *bucket.Index[entry]
	rows       *rowid.Allocator
}

func newIndexSet(capacity int) *indexSet {
	return &indexSet{
		tree: bst.New(entryID),
		categories: bucket.New(bucket.Config[entry]{
			Key:      entryCategory,
			ID:       entryID,
			Row:      entryRow,
			Sentinel: CategorySentinel,
		}),
		names: bucket.New(bucket.Config[entry]{
			Key:      entryName,
			ID:       entryID,
			Row:      entryRow,
			Sentinel: NameSentinel,
		}),
		rows: rowid.New(capacity),
	}
}

// create inserts rec. An id that is already indexed is updated instead.
func (s *indexSet) create(rec model.Record) bool {
	if _, ok := s.rows.Lookup(rec.ID); ok {
		return s.update(rec.ID, rec)
	}

	e := entry{rec: rec, row: s.rows.Assign(rec.ID)}
	if inserted, _, err := s.tree.Insert(e); err != nil || !inserted {
		s.rows.Release(rec.ID)
		return false
	}
	s.categories.Add(e)
	s.names.Add(e)
	return true
}

func (s *indexSet) update(id string, rec model.Record) bool {
	row, ok := s.rows.Lookup(id)
	if !ok {
		return false
	}

	e := entry{rec: rec, row: row}
	s.tree.Update(id, e)
	s.categories.Update(id, e)
	s.names.Update(id, e)
	return true
}

func (s *indexSet) remove(id string) bool {
	if !s.tree.Delete(id) {
		return false
	}
	s.categories.Remove(id)
	s.names.Remove(id)
	s.rows.Release(id)
	return true
}

func (s *indexSet) apply(m mutation) bool {
	switch m.kind {
	case MutationCreate:
		return s.create(m.rec)
	case MutationUpdate:
		return s.update(m.id, m.rec)
	case MutationDelete:
		return s.remove(m.id)
	default:
		return false
	}
}
