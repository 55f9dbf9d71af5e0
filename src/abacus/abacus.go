// Package abacus implements the abundance table builder (spec §4.4, C4):
// a parallel, path-partitioned traversal that accumulates, per feature,
// the set of groups covering it. The worker-pool shape is the teacher's
// boss/minion pattern (src/pipeline/boss.go, graphminion.go) generalized
// from "align a read against a graph" to "mark a feature as covered by a
// group"; the per-feature bitset is grounded on ExaScience-elprep's use
// of github.com/bits-and-blooms/bitset for per-base tracking.
package abacus

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/bits-and-blooms/bitset"

	"github.com/marschall-lab/panacus-go/src/graph"
)

// FeatureKind selects which kind of feature the table is built over.
type FeatureKind int

const (
	// Node features are segments; weight is 1 per segment.
	Node FeatureKind = iota
	// Edge features are canonical edges; weight is always 1 (spec §9
	// resolves the bp/edge-weight open question this way — see
	// DESIGN.md).
	Edge
	// Bp features are segments weighted by their length in base pairs.
	Bp
)

// PathSource supplies the paths a build should traverse, each already
// resolved to a group id by the group resolver. Paths filtered out by
// inclusion/exclusion never appear here.
type PathSource struct {
	Path  *graph.Path
	Group uint32
}

// Config controls the build: how many workers to run and the memory
// budget (in bits) beyond which the master table falls back to the
// sparse per-feature representation (spec §4.4, "Memory policy").
type Config struct {
	Workers          int
	MemoryBudgetBits int64
}

// DefaultMemoryBudgetBits is a conservative default (~1 GiB of bitset
// storage) before the builder switches the master table to sparse form.
const DefaultMemoryBudgetBits int64 = 8 << 30

// Build runs the abundance table builder over sources, producing a
// Table with numFeatures entries, one per feature id (segment id for
// Node/Bp, canonical edge id for Edge). cancel, if non-nil, is polled
// after every path a worker finishes; when it reports true the build
// stops and returns a Cancelled error with no partial table (spec §5,
// "Cancellation").
func Build(kind FeatureKind, numFeatures int, g *graph.Graph, sources []PathSource, cfg Config, cancel func() bool) (Table, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MemoryBudgetBits <= 0 {
		cfg.MemoryBudgetBits = DefaultMemoryBudgetBits
	}
	if cancel == nil {
		cancel = func() bool { return false }
	}
	numGroups := 0
	for _, s := range sources {
		if int(s.Group)+1 > numGroups {
			numGroups = int(s.Group) + 1
		}
	}

	work := make(chan PathSource, len(sources))
	for _, s := range sources {
		work <- s
	}
	close(work)

	locals := make([]map[uint32]*bitset.BitSet, cfg.Workers)
	var wg sync.WaitGroup
	var cancelled int32

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		local := make(map[uint32]*bitset.BitSet)
		locals[w] = local
		go func(local map[uint32]*bitset.BitSet) {
			defer wg.Done()
			for src := range work {
				if atomic.LoadInt32(&cancelled) != 0 {
					return
				}
				walkPath(kind, g, src, local)
				if cancel() {
					atomic.StoreInt32(&cancelled, 1)
					return
				}
			}
		}(local)
	}
	wg.Wait()

	if atomic.LoadInt32(&cancelled) != 0 {
		return nil, &graph.Error{Kind: graph.Cancelled, Msg: "abundance build cancelled"}
	}

	return merge(locals, numFeatures, numGroups, kind, g, cfg.MemoryBudgetBits), nil
}

// walkPath visits every feature src.Path covers and marks src.Group as
// covering it in local. This is the minion's unit of work: one path,
// start to finish, with no mid-path suspension (spec §5).
func walkPath(kind FeatureKind, g *graph.Graph, src PathSource, local map[uint32]*bitset.BitSet) {
	steps := src.Path.Steps
	mark := func(feature uint32, local map[uint32]*bitset.BitSet, group uint32) {
		bs, ok := local[feature]
		if !ok {
			bs = bitset.New(0)
			local[feature] = bs
		}
		bs.Set(uint(group))
	}

	switch kind {
	case Node, Bp:
		for _, s := range steps {
			mark(s.Seg, local, src.Group)
		}
	case Edge:
		// Every transition was interned during graph ingest, so these
		// Edge calls are read-only lookups; nothing here mutates the
		// shared interner.
		for i := 0; i+1 < len(steps); i++ {
			a, b := steps[i], steps[i+1]
			edgeID := g.Edges.Edge(a.Seg, exitSideOf(a), b.Seg, entrySideOf(b))
			mark(edgeID, local, src.Group)
		}
	}
}

func exitSideOf(s graph.Step) graph.Side {
	if s.Forward {
		return graph.SideEnd
	}
	return graph.SideStart
}

func entrySideOf(s graph.Step) graph.Side {
	if s.Forward {
		return graph.SideStart
	}
	return graph.SideEnd
}

// merge performs the single-owner master reduction: bitwise-OR every
// worker's thread-local feature bitset together. The result is
// independent of which worker processed which path and of worker count
// (spec §5, "Ordering guarantees" / property P5), since OR is
// commutative and associative.
func merge(locals []map[uint32]*bitset.BitSet, numFeatures, numGroups int, kind FeatureKind, g *graph.Graph, budgetBits int64) Table {
	master := make(map[uint32]*bitset.BitSet)
	for _, local := range locals {
		for feature, bs := range local {
			if existing, ok := master[feature]; ok {
				existing.InPlaceUnion(bs)
			} else {
				master[feature] = bs.Clone()
			}
		}
	}

	weights := computeWeights(kind, numFeatures, g)

	if int64(numFeatures)*int64(numGroups) <= budgetBits {
		return newDenseTable(master, numFeatures, weights)
	}
	return newSparseTable(master, numFeatures, weights)
}

func computeWeights(kind FeatureKind, numFeatures int, g *graph.Graph) []float64 {
	weights := make([]float64, numFeatures)
	switch kind {
	case Bp:
		for i := 0; i < numFeatures; i++ {
			weights[i] = float64(g.Segments.Length(uint32(i)))
		}
	default: // Node, Edge: unit weight
		for i := range weights {
			weights[i] = 1
		}
	}
	return weights
}

// Table is the frozen, queryable abundance table produced by Build. Both
// the dense and sparse representations satisfy it identically, per spec
// §4.4 ("both must satisfy the same downstream interfaces").
type Table interface {
	NumFeatures() int
	Coverage(feature int) int
	Weight(feature int) float64
	Groups(feature int) []uint32
}

type denseTable struct {
	bits    []*bitset.BitSet // nil entry means zero coverage
	weights []float64
}

func newDenseTable(master map[uint32]*bitset.BitSet, numFeatures int, weights []float64) *denseTable {
	t := &denseTable{bits: make([]*bitset.BitSet, numFeatures), weights: weights}
	for f, bs := range master {
		t.bits[f] = bs
	}
	return t
}

func (t *denseTable) NumFeatures() int { return len(t.bits) }

func (t *denseTable) Coverage(f int) int {
	if t.bits[f] == nil {
		return 0
	}
	return int(t.bits[f].Count())
}

func (t *denseTable) Weight(f int) float64 { return t.weights[f] }

func (t *denseTable) Groups(f int) []uint32 {
	bs := t.bits[f]
	if bs == nil {
		return nil
	}
	groups := make([]uint32, 0, bs.Count())
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		groups = append(groups, uint32(i))
	}
	return groups
}

// sparseTable stores, per feature, a sorted list of covering group ids
// instead of a full bitset. Used when F*G would exceed the configured
// memory budget (spec §4.4, §9 "Dense vs sparse abundance").
type sparseTable struct {
	groups  [][]uint32 // nil entry means zero coverage
	weights []float64
}

func newSparseTable(master map[uint32]*bitset.BitSet, numFeatures int, weights []float64) *sparseTable {
	t := &sparseTable{groups: make([][]uint32, numFeatures), weights: weights}
	for f, bs := range master {
		groups := make([]uint32, 0, bs.Count())
		for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
			groups = append(groups, uint32(i))
		}
		sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
		t.groups[f] = groups
	}
	return t
}

func (t *sparseTable) NumFeatures() int { return len(t.groups) }

func (t *sparseTable) Coverage(f int) int { return len(t.groups[f]) }

func (t *sparseTable) Weight(f int) float64 { return t.weights[f] }

func (t *sparseTable) Groups(f int) []uint32 { return t.groups[f] }
