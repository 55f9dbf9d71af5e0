// Package graph holds the data model of a blunt GFA1 graph: segments,
// canonical edges, and the paths/walks that traverse them. It is the
// identifier interner (C1) plus the shared vocabulary the rest of the
// engine (group, abacus, growth) is built on.
package graph

import "fmt"

// Interner maps segment names to dense, contiguous ids and stores their
// lengths. It is populated once, single-threaded, while a GFA is read; it
// is never mutated after that and is safe to share (read-only) across the
// worker pool that builds the abundance table.
type Interner struct {
	byName  map[string]uint32
	names   []string
	lengths []int
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{byName: make(map[string]uint32)}
}

// Intern maps name to a dense segment id, creating one on first sight.
// Intern is total (never fails) and idempotent (repeat calls with the
// same name return the same id) as long as the reported length agrees
// with any previously recorded length for that name.
func (in *Interner) Intern(name string, length int) uint32 {
	if id, ok := in.byName[name]; ok {
		return id
	}
	id := uint32(len(in.lengths))
	in.byName[name] = id
	in.names = append(in.names, name)
	in.lengths = append(in.lengths, length)
	return id
}

// Lookup returns the id already assigned to name. It is used once ingest
// is finished (path/walk traversal): an unknown name at this point is a
// structural error, not something to silently intern, hence the separate
// method from Intern.
func (in *Interner) Lookup(name string) (uint32, error) {
	id, ok := in.byName[name]
	if !ok {
		return 0, &Error{Kind: UnknownSegment, Msg: fmt.Sprintf("segment %q referenced but never declared", name)}
	}
	return id, nil
}

// NumSegments returns the number of interned segments (|S|).
func (in *Interner) NumSegments() int {
	return len(in.lengths)
}

// Length returns the length in bp of segment id.
func (in *Interner) Length(id uint32) int {
	return in.lengths[id]
}

// Name returns the external name of segment id, the reverse of Intern.
func (in *Interner) Name(id uint32) string {
	return in.names[id]
}
