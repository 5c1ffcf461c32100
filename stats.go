package animalcache

import (
	"fmt"
	"time"

	"github.com/hupe1980/animalcache/internal/bst"
	"github.com/hupe1980/animalcache/internal/bucket"
)

// Phase is the lifecycle state of a Cache.
type Phase int32

const (
	PhaseUninitialized Phase = iota
	PhaseBuilding
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseBuilding:
		return "building"
	case PhaseReady:
		return "ready"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

type (
	// TreeStats describes the shape of the identifier index.
	TreeStats = bst.Stats
	// TreeBuildStats summarizes the construction of the identifier index.
	TreeBuildStats = bst.BuildStats
	// IndexStats describes a category or name index.
	IndexStats = bucket.Stats
	// KeyCount pairs a normalized category or name with its record count.
	KeyCount = bucket.KeyCount
)

// BuildStats summarizes one build.
type BuildStats struct {
	Generation uint64
	// Fetched is the number of records returned by the source.
	Fetched int
	// Indexed is the number of records served after the build, including
	// replayed mutations.
	Indexed int
	// Skipped counts records dropped for failing validation.
	Skipped int
	// Duplicates counts records whose id appeared earlier in the snapshot.
	Duplicates         int
	DistinctCategories int
	DistinctNames      int
	// Replayed counts queued mutations applied after the swap.
	Replayed      int
	FetchDuration time.Duration
	BuildDuration time.Duration
	Duration      time.Duration
	BuiltAt       time.Time
	Tree          TreeBuildStats
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	Phase  Phase
	Ready  bool
	Closed bool
	// Generation identifies the snapshot being served.
	Generation       uint64
	Records          int
	Tree             TreeStats
	Categories       IndexStats
	Names            IndexStats
	LastBuild        BuildStats
	PendingMutations int
	ResultCacheHits  int64
	ResultCacheMiss  int64
}

// Phase returns the current lifecycle phase.
func (c *Cache) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// Ready reports whether reads are being served. It stays true during a
// rebuild, when reads are answered from the previous snapshot.
func (c *Cache) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.idx != nil && !c.closed.Load()
}

// Stats returns the phase and per-index statistics. Computing the tree shape
// visits every node.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		Phase:            c.phase,
		Closed:           c.closed.Load(),
		Generation:       c.generation,
		LastBuild:        c.lastBuild,
		PendingMutations: len(c.pending),
	}
	if c.results != nil {
		s.ResultCacheHits, s.ResultCacheMiss = c.results.Stats()
	}
	if c.idx != nil && !s.Closed {
		s.Ready = true
		s.Records = c.idx.tree.Len()
		s.Tree = c.idx.tree.Stats()
		s.Categories = c.idx.categories.Stats()
		s.Names = c.idx.names.Stats()
	}
	return s
}
