// Package rowid assigns dense uint32 row numbers to string identifiers so that
// sets of records can be represented as compressed bitmaps.
//
// Row numbers of released identifiers are recycled. An Allocator is not safe for
// concurrent mutation; concurrent Lookup calls are safe while no goroutine
// mutates.
package rowid

// Allocator maps identifiers to rows and back.
type Allocator struct {
	rows map[string]uint32
	ids  []string
	free []uint32
}

// New creates an allocator sized for capacity identifiers.
func New(capacity int) *Allocator {
	return &Allocator{
		rows: make(map[string]uint32, capacity),
		ids:  make([]string, 0, capacity),
	}
}

// Assign returns the row for id, allocating one if id is new.
func (a *Allocator) Assign(id string) uint32 {
	if row, ok := a.rows[id]; ok {
		return row
	}

	var row uint32
	if n := len(a.free); n > 0 {
		row = a.free[n-1]
		a.free = a.free[:n-1]
		a.ids[row] = id
	} else {
		row = uint32(len(a.ids))
		a.ids = append(a.ids, id)
	}
	a.rows[id] = row
	return row
}

// Lookup returns the row assigned to id.
func (a *Allocator) Lookup(id string) (uint32, bool) {
	row, ok := a.rows[id]
	return row, ok
}

// ID returns the identifier that currently owns row.
func (a *Allocator) ID(row uint32) (string, bool) {
	if int(row) >= len(a.ids) {
		return "", false
	}
	id := a.ids[row]
	if id == "" {
		return "", false
	}
	return id, true
}

// Release frees the row held by id.
func (a *Allocator) Release(id string) (uint32, bool) {
	row, ok := a.rows[id]
	if !ok {
		return 0, false
	}
	delete(a.rows, id)
	a.ids[row] = ""
	a.free = append(a.free, row)
	return row, true
}

// Len returns the number of assigned rows.
func (a *Allocator) Len() int {
	return len(a.rows)
}
