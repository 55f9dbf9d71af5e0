// Package growth computes the pangenome growth curve: the expected
// number of distinct features seen across a random subset of k groups,
// computed in closed form from a coverage histogram rather than by
// sampling. The hypergeometric identity is evaluated in log space with
// gonum.org/v1/gonum/stat/combin to keep large binomial coefficients
// from overflowing float64.
package growth

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// Unthresholded computes growth[k] for k=1..n from hist, where hist[c]
// is the total weight of features covered by exactly c of the n groups
// (hist[0], if present, is ignored — uncovered features never appear in
// any subset). growth[k] = Σ_c hist[c]·(1 − C(n−c,k)/C(n,k)): the
// probability a feature survives is the complement of the probability
// none of its c covering groups land in the k drawn. The resulting
// curve is monotonic, concave, and bounded by the total covered weight.
//
// This evaluates the full hypergeometric term for every (c,k) pair — an
// O(n²) computation using gonum's lgamma-based binomial helpers rather
// than a naive factorial approach, which would overflow float64 for n
// in the low hundreds.
func Unthresholded(hist []float64, n int) []float64 {
	growth := make([]float64, n+1)
	if n == 0 {
		return growth
	}
	logCn := logBinomRow(n)
	for c := 1; c < len(hist) && c <= n; c++ {
		w := hist[c]
		if w == 0 {
			continue
		}
		m := n - c
		for k := 1; k <= n; k++ {
			var ratio float64
			if k <= m {
				logCmk := combin.LogGeneralizedBinomial(float64(m), float64(k))
				ratio = math.Exp(logCmk - logCn[k])
				ratio = clamp01(ratio)
			}
			growth[k] += w * (1 - ratio)
		}
	}
	return growth
}

// Thresholded computes the (l,q)-quorum growth curve: growth[k] counts
// only the weight of features that, among the k drawn groups, are
// covered by at least l of them AND whose coverage fraction meets q.
// Because the hypergeometric term depends only on a feature's total
// coverage c, not on which specific groups cover it, this — like
// Unthresholded — is a pure function of the histogram.
func Thresholded(hist []float64, n, l int, q float64) []float64 {
	growth := make([]float64, n+1)
	if n == 0 {
		return growth
	}
	logCn := logBinomRow(n)
	for c := 1; c < len(hist) && c <= n; c++ {
		w := hist[c]
		if w == 0 {
			continue
		}
		for k := 1; k <= n; k++ {
			jmin := l
			if q > 0 {
				need := int(math.Ceil(q*float64(k) - 1e-9))
				if need > jmin {
					jmin = need
				}
			}
			jmax := k
			if c < jmax {
				jmax = c
			}
			if jmin > jmax {
				continue
			}
			var p float64
			for j := jmin; j <= jmax; j++ {
				if k-j > n-c || k-j < 0 {
					continue
				}
				logTerm := combin.LogGeneralizedBinomial(float64(c), float64(j)) +
					combin.LogGeneralizedBinomial(float64(n-c), float64(k-j)) -
					logCn[k]
				p += clamp01(math.Exp(logTerm))
			}
			growth[k] += w * clamp01(p)
		}
	}
	return growth
}

// logBinomRow precomputes log C(n,k) for k=0..n, shared across every c
// in a single growth call.
func logBinomRow(n int) []float64 {
	row := make([]float64, n+1)
	for k := 0; k <= n; k++ {
		row[k] = combin.LogGeneralizedBinomial(float64(n), float64(k))
	}
	return row
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
