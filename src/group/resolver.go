// Package group turns a grouping mode and a path list into dense group
// ids, applying inclusion/exclusion selection and an optional explicit
// group order.
package group

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/marschall-lab/panacus-go/src/graph"
)

// Mode selects how paths are aggregated into groups.
type Mode int

const (
	// ByPath groups each path on its own (group = path).
	ByPath Mode = iota
	// ByHaplotype groups paths sharing a sample#haplotype key.
	ByHaplotype
	// BySample groups paths sharing a sample key.
	BySample
)

func (m Mode) key(p *graph.Path) string {
	switch m {
	case ByHaplotype:
		return p.PanSN.SampleHaplotypeKey()
	case BySample:
		return p.PanSN.Sample
	default:
		return p.Name
	}
}

// Selection carries the path-level inclusion/exclusion lists and the
// optional explicit group order list, all read from one-identifier-
// per-line selection files.
type Selection struct {
	Include []string // nil/empty means "include everything"
	Exclude []string
	Order   []string // explicit group-id assignment order; empty means first-seen order
}

// ReadSelectionFile parses a selection/order file: one identifier per
// line, blank lines ignored, and a line whose first non-blank character
// is '#' is a comment. A '#' later in a line is part of the identifier,
// as in PanSN names (sample#haplotype#contig).
func ReadSelectionFile(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("group: reading selection file: %w", err)
	}
	return out, nil
}

// Resolver maps path ids to dense group ids. It is built once,
// single-threaded, before the abundance builder's worker pool starts.
type Resolver struct {
	mode        Mode
	groupOfKey  map[string]uint32
	groupOfPath map[uint32]uint32
	names       []string // names[id] is the group key assigned id, in assignment order
	numGroups   uint32
}

// NewResolver builds a Resolver for paths under mode, applying sel, and
// reporting any recoverable issue (an order-list entry matching no group
// in the data) through warn rather than failing the request: such an
// entry is logged and skipped.
func NewResolver(mode Mode, paths []*graph.Path, sel Selection, warn func(kind graph.Kind, msg string)) (*Resolver, error) {
	if warn == nil {
		warn = func(graph.Kind, string) {}
	}

	include := toSet(sel.Include)
	exclude := toSet(sel.Exclude)

	included := make([]*graph.Path, 0, len(paths))
	for _, p := range paths {
		if include != nil {
			if _, ok := include[p.Name]; !ok {
				continue
			}
		}
		if _, ok := exclude[p.Name]; ok {
			continue
		}
		included = append(included, p)
	}
	if len(included) == 0 {
		return nil, &graph.Error{Kind: graph.EmptySelection, Msg: "no paths remain after inclusion/exclusion"}
	}

	// first-seen group order and membership, from the surviving paths
	firstSeen := make([]string, 0)
	present := make(map[string]bool)
	for _, p := range included {
		k := mode.key(p)
		if !present[k] {
			present[k] = true
			firstSeen = append(firstSeen, k)
		}
	}

	// final order: explicit order entries that are actually present,
	// then any remaining present groups in first-seen order
	order := make([]string, 0, len(firstSeen))
	placed := make(map[string]bool)
	for _, k := range sel.Order {
		if !present[k] {
			warn(graph.MalformedInput, fmt.Sprintf("order list names group %q which is not present among the selected paths, skipping", k))
			continue
		}
		if placed[k] {
			continue
		}
		order = append(order, k)
		placed[k] = true
	}
	for _, k := range firstSeen {
		if !placed[k] {
			order = append(order, k)
			placed[k] = true
		}
	}

	r := &Resolver{
		mode:        mode,
		groupOfKey:  make(map[string]uint32, len(order)),
		groupOfPath: make(map[uint32]uint32, len(included)),
		names:       order,
	}
	for i, k := range order {
		r.groupOfKey[k] = uint32(i)
	}
	r.numGroups = uint32(len(order))
	for _, p := range included {
		r.groupOfPath[p.ID] = r.groupOfKey[mode.key(p)]
	}
	return r, nil
}

func toSet(items []string) map[string]struct{} {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

// NumGroups returns G, the number of distinct groups (spec invariant I3).
func (r *Resolver) NumGroups() int {
	return int(r.numGroups)
}

// GroupOf returns the group id for pathID and whether that path survived
// inclusion/exclusion (false if the path was filtered out entirely).
func (r *Resolver) GroupOf(pathID uint32) (uint32, bool) {
	g, ok := r.groupOfPath[pathID]
	return g, ok
}

// GroupNames returns the group keys in assignment order: GroupNames()[id]
// is the key assigned to that dense group id.
func (r *Resolver) GroupNames() []string {
	return r.names
}

// GroupID returns the dense id assigned to key, and whether key was
// actually assigned one (it may name a group absent from the selected
// paths, e.g. a stale entry in an explicit order list).
func (r *Resolver) GroupID(key string) (uint32, bool) {
	id, ok := r.groupOfKey[key]
	return id, ok
}

// IncludedPaths returns the ids of every path that was kept.
func (r *Resolver) IncludedPaths() []uint32 {
	ids := make([]uint32, 0, len(r.groupOfPath))
	for id := range r.groupOfPath {
		ids = append(ids, id)
	}
	return ids
}
