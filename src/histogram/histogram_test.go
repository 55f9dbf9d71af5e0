package histogram_test

import (
	"testing"

	"github.com/marschall-lab/panacus-go/src/histogram"
)

type fakeTable struct {
	coverage []int
	weight   []float64
}

func (t *fakeTable) NumFeatures() int     { return len(t.coverage) }
func (t *fakeTable) Coverage(f int) int   { return t.coverage[f] }
func (t *fakeTable) Weight(f int) float64 { return t.weight[f] }

func TestHistogramBuild(t *testing.T) {
	// 2 features: one covered by 2 of 3 groups (weight 1), one by 3 of 3 (weight 1).
	tbl := &fakeTable{coverage: []int{2, 3}, weight: []float64{1, 1}}
	h := histogram.Build(tbl, 3)
	if h.Values[1] != 0 {
		t.Fatalf("Values[1] = %g, want 0", h.Values[1])
	}
	if h.Values[2] != 1 {
		t.Fatalf("Values[2] = %g, want 1", h.Values[2])
	}
	if h.Values[3] != 1 {
		t.Fatalf("Values[3] = %g, want 1", h.Values[3])
	}
}

// TestMassConservation is property P1: the sum of hist[k] for k>=1 must
// equal the total weight of features with coverage >= 1.
func TestMassConservation(t *testing.T) {
	tbl := &fakeTable{
		coverage: []int{0, 1, 2, 2, 3, 0},
		weight:   []float64{5, 2, 1, 1, 4, 7},
	}
	h := histogram.Build(tbl, 3)

	var coveredWeight float64
	for f := 0; f < tbl.NumFeatures(); f++ {
		if tbl.coverage[f] >= 1 {
			coveredWeight += tbl.weight[f]
		}
	}
	if got := h.CoveredWeight(); got != coveredWeight {
		t.Fatalf("CoveredWeight = %g, want %g", got, coveredWeight)
	}

	var total float64
	for f := 0; f < tbl.NumFeatures(); f++ {
		total += tbl.weight[f]
	}
	if got := h.TotalWeight(); got != total {
		t.Fatalf("TotalWeight = %g, want %g", got, total)
	}
}
