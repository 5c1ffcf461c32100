// Package animalcache provides an in-memory index layer that mirrors a
// shelter-animal record store and answers lookups by animal id, by breed
// (category) and by name.
//
// # Quick Start
//
//	store := source.NewMemoryStore(records...)
//	c, err := animalcache.New(store, animalcache.WithLogLevel(slog.LevelInfo))
//	if err != nil { ... }
//	defer c.Close()
//	store.Subscribe(c) // keep the cache in step with writes
//
//	if _, err := c.Initialize(ctx); err != nil { ... }
//
//	rec, comparisons, found, err := c.LookupByID("A671017")
//	labs, err := c.LookupByCategory("labrador retriever mix")
//	matches, err := c.SearchNameSubstring("max")
//
// # Indexes
//
// A Cache owns three indexes built from the same snapshot:
//
//   - an identifier index, a binary search tree keyed by animal id whose
//     insertion order is randomized on every build
//   - a category index, grouping records by normalized breed
//   - a name index, grouping records by normalized name
//
// Keys are normalized by trimming and lower-casing. Records without a breed
// are grouped under "unknown", records without a name under "unnamed".
//
// # Readiness
//
// Every read fails with ErrNotReady until the first build succeeds; callers
// are expected to fall back to the backing store. Builds run off to the side
// and are swapped in atomically, so a rebuild never blocks readers and readers
// never observe indexes from different snapshots. Concurrent Initialize and
// Rebuild calls share a single in-flight build.
//
// # Incremental Updates
//
// OnRecordCreated, OnRecordUpdated and OnRecordDeleted keep the indexes in
// step with writes to the backing store. Mutations that arrive during a build
// are queued and replayed onto the new snapshot; see WithMutationReplay.
package animalcache
