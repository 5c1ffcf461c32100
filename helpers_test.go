package animalcache_test

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/animalcache/model"
)

// gatedSource serves a fixed snapshot. When a gate is set, FetchAll blocks
// until the gate is closed or the build context is done.
type gatedSource struct {
	mu      sync.Mutex
	records []model.Record
	err     error
	gate    chan struct{}

	fetches atomic.Int32
	started chan struct{}
}

func newGatedSource(records ...model.Record) *gatedSource {
	return &gatedSource{
		records: records,
		started: make(chan struct{}, 16),
	}
}

func (s *gatedSource) FetchAll(ctx context.Context, _ model.Projection) ([]model.Record, error) {
	s.fetches.Add(1)

	s.mu.Lock()
	gate, err := s.gate, s.err
	records := slices.Clone(s.records)
	s.mu.Unlock()

	select {
	case s.started <- struct{}{}:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

// hold makes the next fetches block and returns the function releasing them.
func (s *gatedSource) hold() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

func (s *gatedSource) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *gatedSource) set(records ...model.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

func shelterRecords() []model.Record {
	return []model.Record{
		{ID: "A5", Category: "Labrador Retriever Mix", Name: "Max"},
		{ID: "A3", Category: "labrador retriever mix", Name: "Bella"},
		{ID: "A7", Category: "Beagle", Name: "max"},
		{ID: "A1", Category: "Labrador", Name: ""},
		{ID: "A9", Category: "", Name: "Rocky"},
	}
}

func ids(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
