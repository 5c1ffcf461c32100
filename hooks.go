package animalcache

import (
	"context"
	"fmt"

	"github.com/hupe1980/animalcache/model"
)

// MutationKind identifies a lifecycle hook.
type MutationKind uint8

const (
	MutationCreate MutationKind = iota + 1
	MutationUpdate
	MutationDelete
)

func (k MutationKind) String() string {
	switch k {
	case MutationCreate:
		return "created"
	case MutationUpdate:
		return "updated"
	case MutationDelete:
		return "deleted"
	default:
		return fmt.Sprintf("mutation(%d)", uint8(k))
	}
}

type mutation struct {
	kind MutationKind
	id   string
	rec  model.Record
}

func (m mutation) validate() error {
	switch m.kind {
	case MutationCreate:
		return translateError(m.rec.Validate())
	case MutationUpdate:
		if m.id == "" {
			return &InvalidRecordError{Reason: "missing animal_id"}
		}
		if m.rec.ID != "" && m.rec.ID != m.id {
			return &InvalidRecordError{ID: m.id, Reason: fmt.Sprintf("record carries animal_id %q", m.rec.ID)}
		}
	case MutationDelete:
		if m.id == "" {
			return &InvalidRecordError{Reason: "missing animal_id"}
		}
	}
	return nil
}

// OnRecordCreated indexes a record that was written to the backing store. A
// record whose id is already indexed is treated as an update.
//
// Hooks are no-ops before the first build starts. While a build is in flight
// the mutation is queued for replay onto the new snapshot; if a previous
// snapshot is being served it is applied there as well. The return value
// reports whether the mutation was applied or queued.
func (c *Cache) OnRecordCreated(rec model.Record) bool {
	return c.mutate(mutation{kind: MutationCreate, id: rec.ID, rec: rec})
}

// OnRecordUpdated replaces the indexed record with the given id, moving it
// between category and name buckets as needed. It returns false when id is not
// indexed or rec carries a different id.
func (c *Cache) OnRecordUpdated(id string, rec model.Record) bool {
	return c.mutate(mutation{kind: MutationUpdate, id: id, rec: rec})
}

// OnRecordDeleted removes the record with the given id from every index.
func (c *Cache) OnRecordDeleted(id string) bool {
	return c.mutate(mutation{kind: MutationDelete, id: id})
}

func (c *Cache) mutate(m mutation) (applied bool) {
	ctx := context.Background()
	defer func() {
		c.metrics.RecordMutation(m.kind, applied)
		c.log.LogHook(ctx, m.kind, m.id, applied)
	}()

	if c.closed.Load() {
		return false
	}
	if err := m.validate(); err != nil {
		c.log.LogSkipped(ctx, err)
		return false
	}
	if m.kind != MutationDelete {
		m.rec = m.rec.Clone()
		m.rec.ID = m.id
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case PhaseUninitialized:
		return false
	case PhaseBuilding:
		if !c.opts.replay {
			return false
		}
		c.pending = append(c.pending, m)
		if c.idx == nil {
			return true
		}
	}

	applied = c.idx.apply(m)
	if applied && c.results != nil {
		c.results.Purge()
	}
	// Queued mutations count as accepted even if the old snapshot rejects them.
	return applied || c.phase == PhaseBuilding
}
