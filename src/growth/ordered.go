package growth

import "sort"

// Table is the subset of abacus.Table ordered growth needs: unlike the
// histogram-driven Unthresholded/Thresholded curves, a fixed permutation
// cares which specific groups cover a feature, not just how many, so it
// reads straight from the abundance table and bypasses the histogram.
type Table interface {
	NumFeatures() int
	Weight(feature int) float64
	Groups(feature int) []uint32
}

// Permutation is a fixed visiting order: Permutation[i] is the group id
// visited at rank i+1. It must be a permutation of every group id
// 0..n-1; callers build it from an explicit group-order list or a
// default (first-seen) order.
type Permutation []uint32

func rankOf(perm Permutation) []int {
	rank := make([]int, len(perm))
	for i, g := range perm {
		rank[g] = i + 1
	}
	return rank
}

// Ordered computes ocov[k] for k=1..n: the weight of features already
// covered after visiting the first k groups in perm's order. A feature
// first appears at the smallest rank among its covering groups, so the
// whole curve is built with one counting-sort bucket sweep in O(F+n)
// rather than Unthresholded's O(n²) pairwise evaluation.
func Ordered(t Table, n int, perm Permutation) []float64 {
	rank := rankOf(perm)
	bucket := make([]float64, n+1)
	for f := 0; f < t.NumFeatures(); f++ {
		groups := t.Groups(f)
		if len(groups) == 0 {
			continue
		}
		first := n + 1
		for _, g := range groups {
			if r := rank[g]; r < first {
				first = r
			}
		}
		if first <= n {
			bucket[first] += t.Weight(f)
		}
	}
	ocov := make([]float64, n+1)
	var running float64
	for k := 1; k <= n; k++ {
		running += bucket[k]
		ocov[k] = running
	}
	return ocov
}

// OrderedThresholded is Ordered's (l,q)-quorum counterpart: a feature
// enters the running count at the first rank k where at least l of its
// covering groups have been visited AND (covers so far)/k ≥ q (spec
// §4.7). Coverage only increases in steps, at the ranks of the feature's
// own covering groups, and k only grows, so the quorum ratio does not
// improve just by waiting at a fixed coverage count; it can only improve
// when the next covering group's rank arrives and raises the count. So
// the earliest qualifying rank is found by walking the feature's sorted
// covering ranks from the l-th one onward until the ratio clears q.
func OrderedThresholded(t Table, n, l int, q float64, perm Permutation) []float64 {
	rank := rankOf(perm)
	bucket := make([]float64, n+1)
	for f := 0; f < t.NumFeatures(); f++ {
		groups := t.Groups(f)
		if len(groups) < l {
			continue
		}
		ranks := make([]int, len(groups))
		for i, g := range groups {
			ranks[i] = rank[g]
		}
		sort.Ints(ranks)
		need, ok := 0, false
		for m := l; m <= len(ranks); m++ {
			k := ranks[m-1]
			if q <= 0 || float64(m)/float64(k) >= q-1e-9 {
				need, ok = k, true
				break
			}
		}
		if ok && need <= n {
			bucket[need] += t.Weight(f)
		}
	}
	ocov := make([]float64, n+1)
	var running float64
	for k := 1; k <= n; k++ {
		running += bucket[k]
		ocov[k] = running
	}
	return ocov
}
