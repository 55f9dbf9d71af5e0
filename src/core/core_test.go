package core_test

import (
	"strings"
	"testing"

	"github.com/marschall-lab/panacus-go/src/abacus"
	"github.com/marschall-lab/panacus-go/src/core"
	"github.com/marschall-lab/panacus-go/src/group"
)

const smallGFA = "H\tVN:Z:1.0\n" +
	"S\t1\t" + "AAA" + "\n" +
	"S\t2\t" + "CC" + "\n" +
	"L\t1\t+\t2\t+\t0M\n" +
	"P\tp1\t1+,2+\t*\n" +
	"P\tp2\t1+,2+\t*\n" +
	"P\tp3\t1+\t*\n"

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < epsilon
}

func TestRunNodeHistAndGrowth(t *testing.T) {
	req := core.Request{
		Input:    strings.NewReader(smallGFA),
		Mode:     group.ByPath,
		Features: []abacus.FeatureKind{abacus.Node},
		Analyses: []core.Analysis{core.Hist, core.Growth},
		Workers:  2,
	}
	res, warnings, err := core.Run(req)
	if err != nil {
		t.Fatalf("Run: %v (warnings: %v)", err, warnings)
	}
	if res.NumGroups != 3 {
		t.Fatalf("NumGroups = %d, want 3", res.NumGroups)
	}

	fr := res.Features[abacus.Node]
	if fr == nil {
		t.Fatal("missing Node feature result")
	}
	if fr.Hist.Values[2] != 1 || fr.Hist.Values[3] != 1 {
		t.Fatalf("hist = %v, want [.,0,1,1]", fr.Hist.Values)
	}

	wantGrowth := []float64{0, 5.0 / 3, 2, 2}
	for k := 1; k <= 3; k++ {
		if !almostEqual(fr.Growth[k], wantGrowth[k]) {
			t.Fatalf("growth[%d] = %g, want %g", k, fr.Growth[k], wantGrowth[k])
		}
	}
}

func TestRunBpWeighting(t *testing.T) {
	req := core.Request{
		Input:    strings.NewReader(smallGFA),
		Mode:     group.ByPath,
		Features: []abacus.FeatureKind{abacus.Bp},
		Analyses: []core.Analysis{core.Hist, core.Growth},
		Workers:  1,
	}
	res, _, err := core.Run(req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	fr := res.Features[abacus.Bp]
	if fr.Hist.Values[2] != 2 || fr.Hist.Values[3] != 3 {
		t.Fatalf("bp hist = %v, want [.,0,2,3]", fr.Hist.Values)
	}
	if want := 13.0 / 3; !almostEqual(fr.Growth[1], want) {
		t.Fatalf("bp growth[1] = %g, want %g", fr.Growth[1], want)
	}
}

func TestRunThresholdGrowth(t *testing.T) {
	req := core.Request{
		Input:      strings.NewReader(smallGFA),
		Mode:       group.ByPath,
		Features:   []abacus.FeatureKind{abacus.Node},
		Analyses:   []core.Analysis{core.Hist, core.Growth},
		Thresholds: []core.Threshold{{L: 2, Q: 0}},
		Workers:    1,
	}
	res, _, err := core.Run(req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	fr := res.Features[abacus.Node]
	if len(fr.ThresholdGrowth) != 1 {
		t.Fatalf("got %d threshold curves, want 1", len(fr.ThresholdGrowth))
	}
	want := []float64{0, 0, 4.0 / 3, 2}
	got := fr.ThresholdGrowth[0]
	for k := 1; k <= 3; k++ {
		if !almostEqual(got[k], want[k]) {
			t.Fatalf("thresholdGrowth[0][%d] = %g, want %g", k, got[k], want[k])
		}
	}
}

func TestRunEdgeFeature(t *testing.T) {
	req := core.Request{
		Input:    strings.NewReader(smallGFA),
		Mode:     group.ByPath,
		Features: []abacus.FeatureKind{abacus.Edge},
		Analyses: []core.Analysis{core.Hist},
		Workers:  1,
	}
	res, _, err := core.Run(req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	fr := res.Features[abacus.Edge]
	if fr.Hist.Values[2] != 1 {
		t.Fatalf("edge hist[2] = %g, want 1 (p1,p2 both cross the one edge)", fr.Hist.Values[2])
	}
}

func TestRunOrderedGrowthWithExplicitOrder(t *testing.T) {
	req := core.Request{
		Input:      strings.NewReader(smallGFA),
		Mode:       group.ByPath,
		Features:   []abacus.FeatureKind{abacus.Node},
		Analyses:   []core.Analysis{core.OrderedGrowth},
		GroupOrder: []string{"p3", "p1", "p2"},
		Workers:    1,
	}
	res, _, err := core.Run(req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	fr := res.Features[abacus.Node]
	// Visiting p3 first covers seg1; p1 then adds seg2; p2 adds nothing.
	want := []float64{0, 1, 2, 2}
	for k := 1; k <= 3; k++ {
		if !almostEqual(fr.Ordered[k], want[k]) {
			t.Fatalf("ocov[%d] = %g, want %g", k, fr.Ordered[k], want[k])
		}
	}
}

func TestRunExclusionDropsPath(t *testing.T) {
	req := core.Request{
		Input:     strings.NewReader(smallGFA),
		Mode:      group.ByPath,
		Selection: group.Selection{Exclude: []string{"p3"}},
		Features:  []abacus.FeatureKind{abacus.Node},
		Analyses:  []core.Analysis{core.Hist},
		Workers:   1,
	}
	res, _, err := core.Run(req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.NumGroups != 2 {
		t.Fatalf("NumGroups = %d, want 2", res.NumGroups)
	}
	fr := res.Features[abacus.Node]
	// p3 dropped, so both segments are now covered by both remaining
	// groups (p1, p2), a flat coverage of 2 for every segment.
	if fr.Hist.Values[2] != 2 {
		t.Fatalf("hist[2] = %g, want 2 (both segments fully covered once p3 is excluded)", fr.Hist.Values[2])
	}
}

// TestRunPathAndHaplotypeGroupingAgree builds a graph where every
// haplotype has exactly one path; grouping by path and grouping by
// haplotype must then produce identical histograms (property P8).
func TestRunPathAndHaplotypeGroupingAgree(t *testing.T) {
	gfaText := "S\t1\tAAA\n" +
		"S\t2\tCC\n" +
		"L\t1\t+\t2\t+\t0M\n" +
		"P\tHG001#1#chr1\t1+,2+\t*\n" +
		"P\tHG002#1#chr1\t1+\t*\n"

	runWith := func(mode group.Mode) []float64 {
		t.Helper()
		req := core.Request{
			Input:    strings.NewReader(gfaText),
			Mode:     mode,
			Features: []abacus.FeatureKind{abacus.Node},
			Analyses: []core.Analysis{core.Hist},
			Workers:  1,
		}
		res, _, err := core.Run(req)
		if err != nil {
			t.Fatalf("Run(mode=%d): %v", mode, err)
		}
		if res.NumGroups != 2 {
			t.Fatalf("mode=%d: NumGroups = %d, want 2", mode, res.NumGroups)
		}
		return res.Features[abacus.Node].Hist.Values
	}

	byPath := runWith(group.ByPath)
	byHaplotype := runWith(group.ByHaplotype)
	if len(byPath) != len(byHaplotype) {
		t.Fatalf("histogram lengths differ: %d vs %d", len(byPath), len(byHaplotype))
	}
	for k := range byPath {
		if !almostEqual(byPath[k], byHaplotype[k]) {
			t.Fatalf("hist[%d]: by-path %g != by-haplotype %g", k, byPath[k], byHaplotype[k])
		}
	}
}

func TestRunTableCoverageMatrix(t *testing.T) {
	req := core.Request{
		Input:    strings.NewReader(smallGFA),
		Mode:     group.ByPath,
		Features: []abacus.FeatureKind{abacus.Node},
		Analyses: []core.Analysis{core.Table},
		Workers:  1,
	}
	res, _, err := core.Run(req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	fr := res.Features[abacus.Node]
	if got, want := fr.FeatureNames, []string{"1", "2"}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("FeatureNames = %v, want %v", got, want)
	}
	if got := fr.Coverage.Groups(0); len(got) != 3 {
		t.Fatalf("seg1 covering groups = %v, want all three", got)
	}
	// p1 and p2 each cover both segments, p3 only the first.
	wantTotals := []float64{2, 2, 1}
	for g, want := range wantTotals {
		if !almostEqual(fr.GroupTotals[g], want) {
			t.Fatalf("GroupTotals[%d] = %g, want %g", g, fr.GroupTotals[g], want)
		}
	}
}

func TestRunInfoOnly(t *testing.T) {
	req := core.Request{
		Input:    strings.NewReader(smallGFA),
		Mode:     group.ByPath,
		Analyses: []core.Analysis{core.Info},
	}
	res, _, err := core.Run(req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Info == nil {
		t.Fatal("Info result missing")
	}
	if res.Info.NumSegments != 2 || res.Info.NumEdges != 1 || res.Info.NumPaths != 3 {
		t.Fatalf("Info = %+v", res.Info)
	}
	if res.Info.TotalBp != 5 {
		t.Fatalf("TotalBp = %d, want 5", res.Info.TotalBp)
	}
	if res.Features != nil {
		t.Fatal("info-only request must not build an abundance table")
	}
}

func TestRunWalkAndPathLinesAgree(t *testing.T) {
	gfaWithWalk := "S\t1\tAAA\n" +
		"S\t2\tCC\n" +
		"L\t1\t+\t2\t+\t0M\n" +
		"P\tp1\t1+,2+\t*\n" +
		"W\tsample\t0\tctg\t0\t5\t>1>2\n"

	req := core.Request{
		Input:    strings.NewReader(gfaWithWalk),
		Mode:     group.ByPath,
		Features: []abacus.FeatureKind{abacus.Node},
		Analyses: []core.Analysis{core.Hist},
		Workers:  1,
	}
	res, _, err := core.Run(req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.NumGroups != 2 {
		t.Fatalf("NumGroups = %d, want 2 (P line + W line, both valid paths)", res.NumGroups)
	}
	fr := res.Features[abacus.Node]
	if fr.Hist.Values[2] != 2 {
		t.Fatalf("hist[2] = %g, want 2 (both segments traversed by both paths)", fr.Hist.Values[2])
	}
}
