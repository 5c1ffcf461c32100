package testutil

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/hupe1980/animalcache/model"
)

// RNG wraps a seeded generator behind a mutex.
type RNG struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed uint64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Shuffle permutes n elements with Fisher-Yates.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(n, swap)
}

// Breeds and names the generators draw from. Some breeds share substrings on
// purpose ("Labrador" / "Labrador Retriever Mix").
var (
	Breeds = []string{
		"Labrador Retriever",
		"Labrador Retriever Mix",
		"German Shepherd",
		"Chihuahua Shorthair Mix",
		"Pit Bull Mix",
		"Beagle",
		"Domestic Shorthair Mix",
		"Siamese",
	}
	Names = []string{"Rex", "Max", "Bella", "Luna", "Charlie", "Daisy", "", "Rocky"}
)

// Record returns the i-th deterministic fixture record.
func Record(i int) model.Record {
	payload, _ := json.Marshal(map[string]any{
		"animal_type":               []string{"Dog", "Cat"}[i%2],
		"age_upon_outcome_in_weeks": float64(i%520) + 0.5,
		"location_lat":              30.0 + float64(i%100)/100,
		"location_long":             -97.0 - float64(i%100)/100,
	})
	return model.Record{
		ID:       fmt.Sprintf("A%06d", i),
		Category: Breeds[i%len(Breeds)],
		Name:     Names[i%len(Names)],
		Payload:  payload,
	}
}

// Records returns n fixture records in random order.
func Records(rng *RNG, n int) []model.Record {
	out := make([]model.Record, n)
	for i := range out {
		out[i] = Record(i)
	}
	if rng != nil {
		rng.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

// SortedRecords returns n fixture records in ascending id order, the worst
// case for an unbalanced search tree.
func SortedRecords(n int) []model.Record {
	return Records(nil, n)
}
