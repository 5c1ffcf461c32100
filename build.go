package animalcache

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/animalcache/internal/bst"
	"github.com/hupe1980/animalcache/internal/cache"
	"github.com/hupe1980/animalcache/model"
)

const buildKey = "build"

type buildResult struct {
	stats BuildStats
	// covers is the highest rebuild request issued before the build fetched
	// its snapshot.
	covers uint64
}

// Initialize performs the first build. It returns immediately when a snapshot
// is already being served and joins the in-flight build when one is running, so
// concurrent callers cause a single fetch.
//
// Cancelling ctx stops the wait, not the build: the build continues in the
// background, bounded by WithBuildTimeout.
func (c *Cache) Initialize(ctx context.Context) (BuildStats, error) {
	if c.closed.Load() {
		return BuildStats{}, ErrClosed
	}

	c.mu.RLock()
	if c.idx != nil {
		stats := c.lastBuild
		c.mu.RUnlock()
		return stats, nil
	}
	c.mu.RUnlock()

	res, err := c.awaitBuild(ctx)
	if err != nil {
		return BuildStats{}, err
	}
	return res.stats, nil
}

// Rebuild fetches a fresh snapshot and swaps it in. Reads are served from the
// previous snapshot until the swap. A Rebuild issued while a build is in flight
// waits for that build and then starts another one, so the returned snapshot
// was always fetched after the call.
func (c *Cache) Rebuild(ctx context.Context) (BuildStats, error) {
	if c.closed.Load() {
		return BuildStats{}, ErrClosed
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return BuildStats{}, err
	}

	want := c.requested.Add(1)
	for {
		res, err := c.awaitBuild(ctx)
		if res == nil || res.covers >= want {
			if err != nil {
				return BuildStats{}, err
			}
			return res.stats, nil
		}
		// Joined a build that fetched before this request; go again.
	}
}

func (c *Cache) awaitBuild(ctx context.Context) (*buildResult, error) {
	ch := c.flight.DoChan(buildKey, func() (any, error) {
		return c.build(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		res, _ := r.Val.(*buildResult)
		return res, r.Err
	}
}

func (c *Cache) build(ctx context.Context) (*buildResult, error) {
	covers := c.requested.Load()
	start := time.Now()

	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		return &buildResult{covers: covers}, ErrClosed
	}
	c.nextGen++
	gen := c.nextGen
	c.phase = PhaseBuilding
	c.pending = nil
	c.mu.Unlock()

	if c.opts.buildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.buildTimeout)
		defer cancel()
	}

	log := c.log.WithGeneration(gen)
	log.DebugContext(ctx, "cache build started")

	stats := BuildStats{Generation: gen}
	next, err := c.assemble(ctx, gen, &stats)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil && c.closed.Load() {
		err = ErrClosed
	}
	if err != nil {
		c.pending = nil
		if c.idx != nil {
			c.phase = PhaseReady
		} else {
			c.phase = PhaseUninitialized
		}
		stats.Duration = time.Since(start)

		berr := &BuildError{Generation: gen, Phase: c.phase, cause: err}
		log.LogBuild(ctx, stats, berr)
		c.metrics.RecordBuild(0, stats.Duration, berr)
		return &buildResult{stats: stats, covers: covers}, berr
	}

	if gen < c.generation {
		log.WarnContext(ctx, "discarding stale build", "serving", c.generation)
		return &buildResult{stats: c.lastBuild, covers: covers}, nil
	}

	queued := c.pending
	c.pending = nil
	for _, m := range queued {
		if next.apply(m) {
			stats.Replayed++
		}
	}
	log.LogReplay(ctx, len(queued), stats.Replayed)

	c.idx = next
	c.generation = gen
	c.phase = PhaseReady
	if c.results != nil {
		c.results.Invalidate(func(k cache.Key) bool { return k.Generation != gen })
	}

	stats.Indexed = next.tree.Len()
	stats.DistinctCategories = next.categories.Stats().DistinctKeys
	stats.DistinctNames = next.names.Stats().DistinctKeys
	stats.Duration = time.Since(start)
	stats.BuiltAt = time.Now()
	c.lastBuild = stats

	log.LogBuild(ctx, stats, nil)
	c.metrics.RecordBuild(stats.Indexed, stats.Duration, nil)
	return &buildResult{stats: stats, covers: covers}, nil
}

// assemble fetches a snapshot and builds a new index set from it. The three
// indexes are built concurrently; none of them is visible to readers yet.
func (c *Cache) assemble(ctx context.Context, gen uint64, stats *BuildStats) (*indexSet, error) {
	fetchStart := time.Now()
	records, err := c.src.FetchAll(ctx, c.opts.projection)
	stats.FetchDuration = time.Since(fetchStart)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stats.Fetched = len(records)

	buildStart := time.Now()
	entries := c.prepare(ctx, records, stats)

	next := newIndexSet(len(entries))
	for i := range entries {
		entries[i].row = next.rows.Assign(entries[i].rec.ID)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		stats.Tree = next.tree.Build(entries, c.shuffler(gen))
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		next.categories.Build(entries)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		next.names.Build(entries)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats.BuildDuration = time.Since(buildStart)
	return next, nil
}

// prepare drops invalid records and collapses duplicate ids. The last
// occurrence of an id wins but keeps the position of the first.
func (c *Cache) prepare(ctx context.Context, records []model.Record, stats *BuildStats) []entry {
	pos := make(map[string]int, len(records))
	entries := make([]entry, 0, len(records))

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			stats.Skipped++
			c.log.LogSkipped(ctx, translateError(err))
			continue
		}
		if i, ok := pos[rec.ID]; ok {
			entries[i].rec = rec.Clone()
			stats.Duplicates++
			continue
		}
		pos[rec.ID] = len(entries)
		entries = append(entries, entry{rec: rec.Clone()})
	}
	return entries
}

func (c *Cache) shuffler(gen uint64) bst.Shuffler {
	if !c.opts.seeded {
		return nil
	}
	return rand.New(rand.NewPCG(c.opts.seed, gen))
}
