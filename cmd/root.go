// Copyright © 2017 Will Rowe <will.rowe@stfc.ac.uk>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marschall-lab/panacus-go/src/graph"
)

// the command line arguments shared by every subcommand
var (
	proc      *int    // number of processors to use
	profiling *bool   // create profile for go pprof
	logFile   *string // file to send logging output to
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "panacus-go",
	Short: "count coverage and growth statistics over a pangenome graph",
	Long: `
#####################################################################################
		panacus-go: a pangenome-graph counting engine
#####################################################################################

 panacus-go reads a GFA1 pangenome graph (segments, links, and either P paths or
 W walks) together with a selection of paths/walks, and computes coverage
 histograms, pangenome growth curves, and threshold-filtered growth - all by
 closed-form combinatorics rather than permutation sampling.

 Subcommands: hist, growth, histgrowth, ordered-histgrowth, table, info, report.`,
}

// Execute adds all child commands to the root command and runs it. It is
// called by main.main(); it only needs to happen once.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	proc = RootCmd.PersistentFlags().IntP("processors", "t", 1, "number of worker threads to use")
	profiling = RootCmd.PersistentFlags().Bool("profiling", false, "create the files needed to profile panacus-go using the go tool pprof")
	logFile = RootCmd.PersistentFlags().String("log", "panacus-go.log", "file to send logging output to")
}

// exitCodeFor maps a core/graph error Kind to a distinct non-zero exit
// code (spec §6, "Exit code 0 on success, non-zero on any fatal error").
// Every kind still exits non-zero; the distinct codes let a caller's
// shell script tell the error classes apart without parsing text.
func exitCodeFor(err error) int {
	var gerr *graph.Error
	if !asGraphError(err, &gerr) {
		return 1
	}
	switch gerr.Kind {
	case graph.EmptySelection:
		return 2
	case graph.ThresholdShapeMismatch:
		return 3
	case graph.Cancelled:
		return 4
	case graph.OutOfMemory:
		return 5
	default:
		return 1
	}
}

func asGraphError(err error, target **graph.Error) bool {
	for err != nil {
		if gerr, ok := err.(*graph.Error); ok {
			*target = gerr
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
