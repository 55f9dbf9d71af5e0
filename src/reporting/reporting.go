// Package reporting is the ambient TSV-rendering collaborator spec.md
// §1 places outside the core's scope ("HTML/TSV report rendering ... are
// external collaborators by interface only"). It turns a core.Result
// bundle into the flat, tab-separated tables the CLI writes to stdout or
// a file, the same shape as the teacher's own reporting package (one
// writer per output kind, plain fmt.Fprintf rows) minus everything that
// package did for BAM/coverage-plot rendering, which has no analogue
// here.
package reporting

import (
	"fmt"
	"io"
	"sort"

	"github.com/marschall-lab/panacus-go/src/abacus"
	"github.com/marschall-lab/panacus-go/src/core"
)

func featureName(kind abacus.FeatureKind) string {
	switch kind {
	case abacus.Edge:
		return "edge"
	case abacus.Bp:
		return "bp"
	default:
		return "node"
	}
}

// WriteHist writes, for every requested feature kind, a header line and
// one "<kind>\t<coverage>\t<weight>" row per coverage c=1..n.
func WriteHist(w io.Writer, res *core.Result) error {
	for _, kind := range sortedKinds(res) {
		fr := res.Features[kind]
		if fr.Hist == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "# count\tcoverage\tweight\n"); err != nil {
			return err
		}
		for c := 1; c < len(fr.Hist.Values); c++ {
			if _, err := fmt.Fprintf(w, "%s\t%d\t%g\n", featureName(kind), c, fr.Hist.Values[c]); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteGrowth writes one row per k=1..n of the unthresholded curve, plus
// one column per requested threshold pair, for every feature kind.
func WriteGrowth(w io.Writer, res *core.Result) error {
	for _, kind := range sortedKinds(res) {
		fr := res.Features[kind]
		if fr.Growth == nil {
			continue
		}
		header := "# k\tcount\tpangenome.growth"
		for i := range fr.ThresholdGrowth {
			header += fmt.Sprintf("\tthreshold.%d", i)
		}
		if _, err := fmt.Fprintf(w, "%s\n", header); err != nil {
			return err
		}
		for k := 1; k < len(fr.Growth); k++ {
			row := fmt.Sprintf("%s\t%g", featureName(kind), fr.Growth[k])
			for i := range fr.ThresholdGrowth {
				row += fmt.Sprintf("\t%g", fr.ThresholdGrowth[i][k])
			}
			if _, err := fmt.Fprintf(w, "%d\t%s\n", k, row); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteOrderedGrowth writes the fixed-permutation curve, the C7
// counterpart of WriteGrowth.
func WriteOrderedGrowth(w io.Writer, res *core.Result) error {
	for _, kind := range sortedKinds(res) {
		fr := res.Features[kind]
		if fr.Ordered == nil {
			continue
		}
		header := "# k\tcount\tordered.growth"
		for i := range fr.OrderedThreshold {
			header += fmt.Sprintf("\tthreshold.%d", i)
		}
		if _, err := fmt.Fprintf(w, "%s\n", header); err != nil {
			return err
		}
		for k := 1; k < len(fr.Ordered); k++ {
			row := fmt.Sprintf("%s\t%g", featureName(kind), fr.Ordered[k])
			for i := range fr.OrderedThreshold {
				row += fmt.Sprintf("\t%g", fr.OrderedThreshold[i][k])
			}
			if _, err := fmt.Fprintf(w, "%d\t%s\n", k, row); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTable writes the feature-by-group coverage matrix: one row per
// feature with a 0/1 cell per group, closed by a row of per-group total
// covered weights (spec §4.8, "per-group coverage tables").
func WriteTable(w io.Writer, res *core.Result) error {
	for _, kind := range sortedKinds(res) {
		fr := res.Features[kind]
		if fr.GroupTotals == nil {
			continue
		}
		header := "# " + featureName(kind)
		for _, name := range res.GroupNames {
			header += "\t" + name
		}
		if _, err := fmt.Fprintf(w, "%s\n", header); err != nil {
			return err
		}
		if fr.Coverage != nil {
			covered := make([]bool, len(res.GroupNames))
			for f := 0; f < fr.Coverage.NumFeatures(); f++ {
				for i := range covered {
					covered[i] = false
				}
				for _, g := range fr.Coverage.Groups(f) {
					covered[g] = true
				}
				row := fr.FeatureNames[f]
				for _, c := range covered {
					if c {
						row += "\t1"
					} else {
						row += "\t0"
					}
				}
				if _, err := fmt.Fprintf(w, "%s\n", row); err != nil {
					return err
				}
			}
		}
		totals := "total"
		for _, t := range fr.GroupTotals {
			totals += fmt.Sprintf("\t%g", t)
		}
		if _, err := fmt.Fprintf(w, "%s\n", totals); err != nil {
			return err
		}
	}
	return nil
}

// WriteInfo writes the supplemented "info" analysis's structural counts
// (SPEC_FULL.md §4.1).
func WriteInfo(w io.Writer, res *core.Result) error {
	if res.Info == nil {
		return fmt.Errorf("reporting: result has no Info section")
	}
	info := res.Info
	_, err := fmt.Fprintf(w,
		"segments\t%d\nedges\t%d\npaths\t%d\ngroups\t%d\ntotal_bp\t%d\n",
		info.NumSegments, info.NumEdges, info.NumPaths, info.NumGroups, info.TotalBp,
	)
	return err
}

// sortedKinds returns the feature kinds present in res, in a stable
// node/edge/bp order, so repeated runs over the same request always
// render identical TSV byte-for-byte (spec property P5's determinism
// requirement extended to the reporting layer).
func sortedKinds(res *core.Result) []abacus.FeatureKind {
	kinds := make([]abacus.FeatureKind, 0, len(res.Features))
	for k := range res.Features {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
