// Package core is the façade (spec §4.8, C8): it accepts one request,
// drives graph ingest, group resolution, abundance building, and the
// histogram/growth engines in sequence, and hands back a single result
// bundle. It is the only package the CLI talks to directly, the same
// shape as the teacher's pipeline package gluing stages together, but
// sequenced by plain function calls instead of a channel pipeline since
// each stage here needs the previous one's complete output rather than a
// stream of records.
package core

import (
	"fmt"
	"io"

	"github.com/marschall-lab/panacus-go/src/abacus"
	"github.com/marschall-lab/panacus-go/src/gfa1"
	"github.com/marschall-lab/panacus-go/src/graph"
	"github.com/marschall-lab/panacus-go/src/group"
	"github.com/marschall-lab/panacus-go/src/growth"
	"github.com/marschall-lab/panacus-go/src/histogram"
)

// Analysis selects one of the outputs a request can ask for.
type Analysis int

const (
	Hist Analysis = iota
	Growth
	OrderedGrowth
	Table
	// HistGrowth is the composition named in spec.md §1 ("hist-growth"):
	// run the histogram (C5) and feed it straight into unthresholded
	// growth (C6), returning both in one bundle. It carries no math of
	// its own — requesting it is equivalent to requesting Hist and
	// Growth together (original_source/src/analyses/histgrowth.rs).
	HistGrowth
	// OrderedHistGrowth is HistGrowth's C7 counterpart: histogram plus
	// the fixed-permutation growth curve instead of the closed-form
	// average (original_source/src/commands/ordered_histgrowth.rs).
	OrderedHistGrowth
	// Info runs only C1-C3 (graph ingest and group resolution) and
	// reports structural counts; it never builds an abundance table
	// (spec.md §6 names the "info" subcommand without specifying it —
	// resolved in SPEC_FULL.md §4.1 from original_source/src/analyses/info.rs).
	Info
)

// Threshold is one (l, q) quorum pair for threshold-filtered growth
// (spec §4.6/§4.7).
type Threshold struct {
	L int
	Q float64
}

// Request bundles everything the façade needs for one run: where the
// graph comes from, how paths become groups, which features and
// analyses to compute, and how much parallelism/memory to spend (spec
// §4.8, "Accepts a request").
type Request struct {
	Input   io.Reader
	Gzipped bool

	Mode      group.Mode
	Selection group.Selection

	Features   []abacus.FeatureKind
	Analyses   []Analysis
	Thresholds []Threshold

	// GroupOrder, if set, is the fixed visiting permutation (by group
	// key) ordered growth uses. Empty means the group resolver's own
	// assignment order (spec §4.7's π defaults to §4.3's group order).
	GroupOrder []string

	Workers          int
	MemoryBudgetBits int64

	// Cancel, if non-nil, is polled by the abundance builder between
	// paths (spec §5, "Cancellation").
	Cancel func() bool
}

// Warning is one recoverable condition surfaced during a run (spec §7,
// "Warnings accumulate in a collaborator-visible channel").
type Warning struct {
	Kind graph.Kind
	Msg  string
}

// FeatureResult holds every analysis computed for one feature kind.
type FeatureResult struct {
	Kind abacus.FeatureKind

	Hist *histogram.Histogram

	// Growth is the unthresholded curve, growth[1..n]; nil unless
	// requested.
	Growth []float64

	// ThresholdGrowth[i] is the curve for Request.Thresholds[i]; nil
	// unless requested.
	ThresholdGrowth [][]float64

	// Ordered is ocov[1..n] under Request.GroupOrder (or the resolver's
	// default order); nil unless requested.
	Ordered []float64

	// OrderedThreshold[i] is Ordered's quorum counterpart for
	// Request.Thresholds[i]; nil unless requested.
	OrderedThreshold [][]float64

	// GroupTotals[g] is the total weight of features group g covers,
	// the per-group coverage table (spec §4.8, "per-group coverage
	// tables"); nil unless the Table analysis was requested.
	GroupTotals []float64

	// Coverage is the frozen abundance table itself, exposing each
	// feature's covering-group list for the feature-by-group coverage
	// matrix; nil unless the Table analysis was requested.
	Coverage abacus.Table

	// FeatureNames[f] labels feature f for a reporter: a segment name
	// for Node/Bp, a canonical oriented-endpoint pair for Edge; nil
	// unless the Table analysis was requested.
	FeatureNames []string
}

// GraphInfo is the supplemented "info" analysis's output (SPEC_FULL.md
// §4.1): structural counts derived from C1-C3 alone, no abundance table.
type GraphInfo struct {
	NumSegments int
	NumEdges    int
	NumPaths    int
	NumGroups   int
	TotalBp     int64
}

// Result is the façade's typed output bundle (spec §4.8/§6, "Result
// bundle"): per-feature-kind results plus the group names a reporter
// needs to label them.
type Result struct {
	NumGroups      int
	GroupNames     []string
	DuplicatePaths int
	Features       map[abacus.FeatureKind]*FeatureResult

	// Info is populated only when the request's Analyses contains Info;
	// nil otherwise.
	Info *GraphInfo
}

// Run executes req to completion and returns the result bundle, every
// warning collected along the way, and a fatal error if one occurred.
// On any fatal error the returned Result is nil: the façade never
// partially populates the bundle (spec §7, "Policy").
func Run(req Request) (*Result, []Warning, error) {
	var warnings []Warning
	warn := func(kind graph.Kind, msg string) {
		warnings = append(warnings, Warning{Kind: kind, Msg: msg})
	}

	if len(req.Thresholds) > 0 {
		for _, t := range req.Thresholds {
			if t.L < 1 || t.Q < 0 || t.Q > 1 {
				return nil, warnings, &graph.Error{
					Kind: graph.ThresholdShapeMismatch,
					Msg:  fmt.Sprintf("threshold (l=%d, q=%g) out of range", t.L, t.Q),
				}
			}
		}
	}

	reader, err := gfa1.NewReader(req.Input, req.Gzipped)
	if err != nil {
		return nil, warnings, err
	}

	g, err := graph.Build(reader, warn)
	if err != nil {
		return nil, warnings, err
	}

	resolver, err := group.NewResolver(req.Mode, g.Paths, req.Selection, warn)
	if err != nil {
		return nil, warnings, err
	}
	n := resolver.NumGroups()

	if wants(req.Analyses, Info) && len(req.Analyses) == 1 {
		return &Result{
			NumGroups:      n,
			GroupNames:     resolver.GroupNames(),
			DuplicatePaths: g.DuplicatePaths,
			Info:           buildGraphInfo(g, n),
		}, warnings, nil
	}

	perm, err := resolvePermutation(resolver, req.GroupOrder, warn)
	if err != nil {
		return nil, warnings, err
	}

	sources := buildSources(g, resolver)

	features := req.Features
	if len(features) == 0 {
		features = []abacus.FeatureKind{abacus.Node}
	}

	wantHist := wantsAny(req.Analyses, Hist, Growth, Table, HistGrowth, OrderedHistGrowth)
	wantGrowth := wantsAny(req.Analyses, Growth, HistGrowth)
	wantOrdered := wantsAny(req.Analyses, OrderedGrowth, OrderedHistGrowth)

	result := &Result{
		NumGroups:      n,
		GroupNames:     resolver.GroupNames(),
		DuplicatePaths: g.DuplicatePaths,
		Features:       make(map[abacus.FeatureKind]*FeatureResult, len(features)),
	}
	if wants(req.Analyses, Info) {
		result.Info = buildGraphInfo(g, n)
	}

	cfg := abacus.Config{Workers: req.Workers, MemoryBudgetBits: req.MemoryBudgetBits}

	for _, kind := range features {
		numFeatures := numFeaturesFor(kind, g)
		table, err := abacus.Build(kind, numFeatures, g, sources, cfg, req.Cancel)
		if err != nil {
			return nil, warnings, err
		}

		fr := &FeatureResult{Kind: kind}
		if wantHist {
			fr.Hist = histogram.Build(table, n)
		}
		if wantGrowth {
			fr.Growth = growth.Unthresholded(fr.Hist.Values, n)
			for _, t := range req.Thresholds {
				fr.ThresholdGrowth = append(fr.ThresholdGrowth, growth.Thresholded(fr.Hist.Values, n, t.L, t.Q))
			}
		}
		if wantOrdered {
			fr.Ordered = growth.Ordered(table, n, perm)
			for _, t := range req.Thresholds {
				fr.OrderedThreshold = append(fr.OrderedThreshold, growth.OrderedThresholded(table, n, t.L, t.Q, perm))
			}
		}
		if wants(req.Analyses, Table) {
			fr.GroupTotals = groupTotals(table, n)
			fr.Coverage = table
			fr.FeatureNames = featureNames(kind, g)
		}
		result.Features[kind] = fr
	}

	return result, warnings, nil
}

// buildGraphInfo computes the supplemented "info" analysis directly from
// the interners and resolver, without touching the abundance builder
// (SPEC_FULL.md §4.1).
func buildGraphInfo(g *graph.Graph, numGroups int) *GraphInfo {
	var totalBp int64
	for i := 0; i < g.Segments.NumSegments(); i++ {
		totalBp += int64(g.Segments.Length(uint32(i)))
	}
	return &GraphInfo{
		NumSegments: g.Segments.NumSegments(),
		NumEdges:    g.Edges.NumEdges(),
		NumPaths:    len(g.Paths),
		NumGroups:   numGroups,
		TotalBp:     totalBp,
	}
}

func wants(analyses []Analysis, a Analysis) bool {
	for _, x := range analyses {
		if x == a {
			return true
		}
	}
	return false
}

func wantsAny(analyses []Analysis, as ...Analysis) bool {
	for _, a := range as {
		if wants(analyses, a) {
			return true
		}
	}
	return false
}

func numFeaturesFor(kind abacus.FeatureKind, g *graph.Graph) int {
	if kind == abacus.Edge {
		return g.Edges.NumEdges()
	}
	return g.Segments.NumSegments()
}

func buildSources(g *graph.Graph, resolver *group.Resolver) []abacus.PathSource {
	sources := make([]abacus.PathSource, 0, len(g.Paths))
	for _, p := range g.Paths {
		gid, ok := resolver.GroupOf(p.ID)
		if !ok {
			continue
		}
		sources = append(sources, abacus.PathSource{Path: p, Group: gid})
	}
	return sources
}

// resolvePermutation turns an explicit (possibly partial) group-order
// list into a full permutation of every resolved group id, falling back
// to the resolver's own first-seen/explicit order for any group the
// list doesn't mention. An order entry naming a group the resolver never
// assigned is logged and skipped (spec §9, "log and skip"), matching
// the group resolver's own handling of the same situation.
func resolvePermutation(resolver *group.Resolver, order []string, warn func(graph.Kind, string)) (growth.Permutation, error) {
	n := resolver.NumGroups()
	if len(order) == 0 {
		perm := make(growth.Permutation, n)
		for i := range perm {
			perm[i] = uint32(i)
		}
		return perm, nil
	}

	perm := make(growth.Permutation, 0, n)
	placed := make([]bool, n)
	for _, key := range order {
		id, ok := resolver.GroupID(key)
		if !ok {
			warn(graph.MalformedInput, fmt.Sprintf("group order names %q which is not a resolved group, skipping", key))
			continue
		}
		if placed[id] {
			continue
		}
		perm = append(perm, id)
		placed[id] = true
	}
	for i := 0; i < n; i++ {
		if !placed[i] {
			perm = append(perm, uint32(i))
			placed[i] = true
		}
	}
	return perm, nil
}

func featureNames(kind abacus.FeatureKind, g *graph.Graph) []string {
	if kind == abacus.Edge {
		names := make([]string, g.Edges.NumEdges())
		for i := range names {
			names[i] = g.Edges.Describe(uint32(i), g.Segments)
		}
		return names
	}
	names := make([]string, g.Segments.NumSegments())
	for i := range names {
		names[i] = g.Segments.Name(uint32(i))
	}
	return names
}

func groupTotals(t abacus.Table, numGroups int) []float64 {
	totals := make([]float64, numGroups)
	for f := 0; f < t.NumFeatures(); f++ {
		w := t.Weight(f)
		for _, g := range t.Groups(f) {
			totals[g] += w
		}
	}
	return totals
}
