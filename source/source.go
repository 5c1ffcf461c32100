package source

import (
	"context"
	"errors"

	"github.com/hupe1980/animalcache/model"
)

var (
	// ErrNotFound is returned for operations on an unknown record id.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when creating a record whose id is taken.
	ErrAlreadyExists = errors.New("record already exists")
)

// Source fetches a full snapshot of the backing store.
type Source interface {
	// FetchAll returns every record, restricted to the projected fields.
	FetchAll(ctx context.Context, projection model.Projection) ([]model.Record, error)
}

// Listener receives record lifecycle notifications. The return value reports
// whether the notification changed the listener's state.
type Listener interface {
	OnRecordCreated(rec model.Record) bool
	OnRecordUpdated(id string, rec model.Record) bool
	OnRecordDeleted(id string) bool
}

// FuncSource adapts a function to Source.
type FuncSource func(ctx context.Context, projection model.Projection) ([]model.Record, error)

// FetchAll calls f.
func (f FuncSource) FetchAll(ctx context.Context, projection model.Projection) ([]model.Record, error) {
	return f(ctx, projection)
}

func project(records []model.Record, p model.Projection) []model.Record {
	out := make([]model.Record, len(records))
	for i, r := range records {
		out[i] = r.Project(p)
	}
	return out
}
