package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/marschall-lab/panacus-go/src/abacus"
	"github.com/marschall-lab/panacus-go/src/core"
	"github.com/marschall-lab/panacus-go/src/graph"
	"github.com/marschall-lab/panacus-go/src/group"
	"github.com/marschall-lab/panacus-go/src/misc"
	"github.com/marschall-lab/panacus-go/src/version"
	"github.com/marschall-lab/panacus-go/src/xlog"
)

// analysisFlags holds the request-building flags every coverage/growth
// subcommand shares (spec §6, CLI): feature kind, grouping mode,
// selection files, thresholds, input/output. Each subcommand file
// registers these once via addAnalysisFlags and reads them back through
// buildRequest, the same one-struct-of-flag-pointers shape the teacher
// uses per subcommand (cmd/align.go, cmd/index.go) just shared across
// several subcommands instead of duplicated in each.
type analysisFlags struct {
	input   *string
	gzipped *bool
	output  *string

	feature *string // "node", "edge", "bp", or "all"

	sampleMode   *bool
	haploMode    *bool
	includeFile  *string
	excludeFile  *string
	orderFile    *string
	thresholdL   *[]int
	thresholdQ   *[]float64
	memoryBudget *int64
}

func addAnalysisFlags(cmd *cobra.Command) *analysisFlags {
	af := &analysisFlags{}
	af.input = cmd.Flags().StringP("gfa", "i", "", "input GFA1 file (reads STDIN if unset)")
	af.gzipped = cmd.Flags().Bool("gz", false, "input is gzip-compressed")
	af.output = cmd.Flags().StringP("output", "o", "", "output file (writes to STDOUT if unset)")
	af.feature = cmd.Flags().StringP("count", "c", "node", "feature kind: node, edge, bp, or all")
	af.sampleMode = cmd.Flags().BoolP("sample", "S", false, "group paths by sample (first '#'-token of the path name)")
	af.haploMode = cmd.Flags().BoolP("haplotype", "H", false, "group paths by sample#haplotype (first two '#'-tokens)")
	af.includeFile = cmd.Flags().String("subset", "", "file listing paths to include, one per line")
	af.excludeFile = cmd.Flags().String("exclude", "", "file listing paths to exclude, one per line")
	af.orderFile = cmd.Flags().String("order", "", "file listing the group visiting order, one per line")
	af.thresholdL = cmd.Flags().IntSliceP("coverage", "l", nil, "coverage thresholds for threshold-filtered growth")
	af.thresholdQ = cmd.Flags().Float64SliceP("quorum", "q", nil, "quorum fractions for threshold-filtered growth (same length as -l)")
	af.memoryBudget = cmd.Flags().Int64("memory-budget-bits", abacus.DefaultMemoryBudgetBits, "dense-abundance memory budget in bits before falling back to sparse")
	return af
}

// openInput opens af.input, or STDIN if unset, checking STDIN is
// actually piped the same way misc.CheckSTDIN does for the teacher's
// align subcommand.
func (af *analysisFlags) openInput() (*os.File, error) {
	if *af.input == "" {
		if err := misc.CheckSTDIN(); err != nil {
			return nil, err
		}
		return os.Stdin, nil
	}
	if err := misc.CheckFile(*af.input); err != nil {
		return nil, err
	}
	return os.Open(*af.input)
}

// openOutput opens af.output for writing, or returns os.Stdout if unset.
// The returned close func is a no-op for stdout.
func (af *analysisFlags) openOutput() (*os.File, func(), error) {
	if *af.output == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(*af.output)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// featureKinds expands the -c flag into the set of abacus.FeatureKind
// values a request should build tables for (SPEC_FULL.md §4, "multiple
// simultaneous feature kinds").
func (af *analysisFlags) featureKinds() ([]abacus.FeatureKind, error) {
	switch *af.feature {
	case "node":
		return []abacus.FeatureKind{abacus.Node}, nil
	case "edge":
		return []abacus.FeatureKind{abacus.Edge}, nil
	case "bp":
		return []abacus.FeatureKind{abacus.Bp}, nil
	case "all":
		return []abacus.FeatureKind{abacus.Node, abacus.Edge, abacus.Bp}, nil
	default:
		return nil, fmt.Errorf("unrecognised -c/--count value %q (want node, edge, bp, or all)", *af.feature)
	}
}

func (af *analysisFlags) groupMode() group.Mode {
	switch {
	case *af.sampleMode:
		return group.BySample
	case *af.haploMode:
		return group.ByHaplotype
	default:
		return group.ByPath
	}
}

func readListFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	if err := misc.CheckFile(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return group.ReadSelectionFile(f)
}

func (af *analysisFlags) selection() (group.Selection, error) {
	include, err := readListFile(*af.includeFile)
	if err != nil {
		return group.Selection{}, err
	}
	exclude, err := readListFile(*af.excludeFile)
	if err != nil {
		return group.Selection{}, err
	}
	order, err := readListFile(*af.orderFile)
	if err != nil {
		return group.Selection{}, err
	}
	return group.Selection{Include: include, Exclude: exclude, Order: order}, nil
}

func (af *analysisFlags) thresholds() ([]core.Threshold, error) {
	ls := *af.thresholdL
	qs := *af.thresholdQ
	if len(ls) != len(qs) {
		return nil, &graph.Error{
			Kind: graph.ThresholdShapeMismatch,
			Msg:  fmt.Sprintf("-l has %d entries but -q has %d", len(ls), len(qs)),
		}
	}
	thresholds := make([]core.Threshold, len(ls))
	for i := range ls {
		thresholds[i] = core.Threshold{L: ls[i], Q: qs[i]}
	}
	return thresholds, nil
}

// buildRequest assembles a core.Request from the shared flags plus the
// analyses this particular subcommand wants.
func (af *analysisFlags) buildRequest(analyses []core.Analysis) (core.Request, func(), error) {
	in, err := af.openInput()
	if err != nil {
		return core.Request{}, nil, err
	}
	closeInput := func() {
		if in != os.Stdin {
			in.Close()
		}
	}

	features, err := af.featureKinds()
	if err != nil {
		closeInput()
		return core.Request{}, nil, err
	}
	sel, err := af.selection()
	if err != nil {
		closeInput()
		return core.Request{}, nil, err
	}
	thresholds, err := af.thresholds()
	if err != nil {
		closeInput()
		return core.Request{}, nil, err
	}

	workers := *proc
	if workers <= 0 || workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}

	req := core.Request{
		Input:            in,
		Gzipped:          *af.gzipped,
		Mode:             af.groupMode(),
		Selection:        sel,
		Features:         features,
		Analyses:         analyses,
		Thresholds:       thresholds,
		GroupOrder:       sel.Order,
		Workers:          workers,
		MemoryBudgetBits: *af.memoryBudget,
	}
	return req, closeInput, nil
}

// withLogging sets up the log file and optional pprof profiling the same
// way every teacher subcommand does (misc.StartLogging, defer
// profile.Start(...).Stop()), then runs fn with the resulting logger.
// Any error fn returns is fatal: it is logged, echoed to stderr, and the
// process exits with the code for the error's kind.
func withLogging(name string, fn func(lg *xlog.Logger) error) {
	logFH := misc.StartLogging(*logFile)
	defer logFH.Close()
	stdlog := log.New(logFH, "", log.LstdFlags)
	lg := xlog.New(stdlog)

	if *profiling {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	lg.Info("this is panacus-go (version %s)", version.GetVersion())
	lg.Info("starting the %s subcommand", name)
	lg.Info("processors: %d", *proc)

	if err := fn(lg); err != nil {
		lg.Error("%v", err)
		fmt.Fprintf(os.Stderr, "ERROR --> %v\n", err)
		logFH.Close()
		os.Exit(exitCodeFor(err))
	}
	if *profiling {
		lg.Info("%s", misc.PrintMemUsage())
	}
	lg.Info("finished")
}
