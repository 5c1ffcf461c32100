package source

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/animalcache/model"
)

// MemoryStore is an in-process record store. Every successful write is
// announced to subscribed listeners after the store lock is released, in the
// order the writes were applied.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]model.Record

	// notifyMu serializes notifications so listeners observe writes in order.
	notifyMu  sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewMemoryStore creates a store seeded with records. Later duplicates
// overwrite earlier ones.
func NewMemoryStore(records ...model.Record) *MemoryStore {
	s := &MemoryStore{
		records:   make(map[string]model.Record, len(records)),
		listeners: make(map[int]Listener),
	}
	for _, r := range records {
		if r.ID != "" {
			s.records[r.ID] = r.Clone()
		}
	}
	return s
}

// Subscribe registers l and returns a function that removes it.
func (s *MemoryStore) Subscribe(l Listener) (unsubscribe func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()
		delete(s.listeners, id)
	}
}

// FetchAll returns projected copies of all records ordered by id.
func (s *MemoryStore) FetchAll(ctx context.Context, projection model.Projection) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]model.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Project(projection))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns a copy of the record with the given id.
func (s *MemoryStore) Get(id string) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return model.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.Clone(), nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Create stores a new record.
func (s *MemoryStore) Create(rec model.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if _, ok := s.records[rec.ID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyExists, rec.ID)
	}
	s.records[rec.ID] = rec.Clone()
	s.mu.Unlock()

	for _, l := range s.listeners {
		l.OnRecordCreated(rec.Clone())
	}
	return nil
}

// Update replaces the record with the given id. The id of rec is forced to id.
func (s *MemoryStore) Update(id string, rec model.Record) error {
	rec.ID = id
	if err := rec.Validate(); err != nil {
		return err
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if _, ok := s.records[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.records[id] = rec.Clone()
	s.mu.Unlock()

	for _, l := range s.listeners {
		l.OnRecordUpdated(id, rec.Clone())
	}
	return nil
}

// Delete removes the record with the given id.
func (s *MemoryStore) Delete(id string) error {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if _, ok := s.records[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.records, id)
	s.mu.Unlock()

	for _, l := range s.listeners {
		l.OnRecordDeleted(id)
	}
	return nil
}

// PutSilently writes rec without notifying listeners. It models bulk changes
// made behind the application's back, which only a rebuild picks up.
func (s *MemoryStore) PutSilently(rec model.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec.Clone()
	return nil
}
