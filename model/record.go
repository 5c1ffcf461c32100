package model

import (
	"encoding/json"
	"errors"
	"slices"
)

// ErrMissingID is returned by Validate when a record has no identifier.
var ErrMissingID = errors.New("record has no animal_id")

// Field names of the backing store's record schema.
const (
	FieldID       = "animal_id"
	FieldCategory = "breed"
	FieldName     = "name"
)

// Record is the unit stored by every index.
type Record struct {
	// ID is the unique animal identifier.
	ID string `json:"animal_id"`
	// Category is the breed, as stored in the backing store.
	Category string `json:"breed,omitempty"`
	// Name is the animal's name, as stored in the backing store.
	Name string `json:"name,omitempty"`
	// Payload holds every other projected field. Treated as opaque.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Validate reports whether the record can be indexed.
func (r Record) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	return nil
}

// Clone returns a copy of the record that shares no memory with r.
func (r Record) Clone() Record {
	if r.Payload != nil {
		r.Payload = slices.Clone(r.Payload)
	}
	return r
}

// Projection names the fields requested from the backing store during a build.
// The identifier, category and name fields are always included.
type Projection []string

// DefaultProjection is the lean field set fetched for a cache build.
var DefaultProjection = Projection{
	FieldID,
	FieldCategory,
	"animal_type",
	FieldName,
	"sex_upon_outcome",
	"age_upon_outcome_in_weeks",
	"location_lat",
	"location_long",
	"datetime",
}

// Fields returns the projected field names with the indexed fields guaranteed
// present and duplicates removed. Order of first occurrence is preserved.
func (p Projection) Fields() []string {
	out := make([]string, 0, len(p)+3)
	seen := make(map[string]struct{}, len(p)+3)
	add := func(f string) {
		if f == "" {
			return
		}
		if _, ok := seen[f]; ok {
			return
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	add(FieldID)
	add(FieldCategory)
	add(FieldName)
	for _, f := range p {
		add(f)
	}
	return out
}

// Includes reports whether field is part of the projection.
func (p Projection) Includes(field string) bool {
	return slices.Contains(p.Fields(), field)
}

// Project returns a copy of r whose payload only keeps the top-level keys named
// by p. Payloads that are not JSON objects are dropped. A nil projection keeps
// the full payload.
func (r Record) Project(p Projection) Record {
	out := r.Clone()
	if p == nil || len(out.Payload) == 0 {
		return out
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(out.Payload, &obj); err != nil {
		out.Payload = nil
		return out
	}
	for k := range obj {
		if !p.Includes(k) {
			delete(obj, k)
		}
	}
	if len(obj) == 0 {
		out.Payload = nil
		return out
	}
	b, err := json.Marshal(obj)
	if err != nil {
		out.Payload = nil
		return out
	}
	out.Payload = b
	return out
}
