// Package histogram computes the coverage histogram: a single O(F)
// sweep over an abundance table that buckets every feature's weight by
// how many groups cover it. It is the shared input both growth engines
// build on.
package histogram

// Table is the subset of abacus.Table that a histogram needs. Declared
// locally so this package doesn't import abacus just to read three
// methods off it.
type Table interface {
	NumFeatures() int
	Coverage(feature int) int
	Weight(feature int) float64
}

// Histogram is hist[0..G]: Values[0] is the weight of features no
// included group covers at all (kept for bookkeeping, never fed to the
// growth engines); Values[k] for k=1..G is the weight of features
// covered by exactly k groups.
type Histogram struct {
	Values []float64
}

// Build sweeps t once, bucketing each feature's weight by its coverage
// count. numGroups is G, the number of groups the request resolved
// (spec invariant I3); a feature's coverage can never exceed it.
func Build(t Table, numGroups int) *Histogram {
	h := &Histogram{Values: make([]float64, numGroups+1)}
	for f := 0; f < t.NumFeatures(); f++ {
		c := t.Coverage(f)
		h.Values[c] += t.Weight(f)
	}
	return h
}

// TotalWeight returns the total weight across every feature, covered or
// not — the mass invariant a histogram must preserve (spec property P1).
func (h *Histogram) TotalWeight() float64 {
	var total float64
	for _, v := range h.Values {
		total += v
	}
	return total
}

// CoveredWeight returns the weight of features covered by at least one
// group, i.e. TotalWeight minus the uncovered bucket.
func (h *Histogram) CoveredWeight() float64 {
	return h.TotalWeight() - h.Values[0]
}
