package cmd

import (
	"github.com/spf13/cobra"

	"github.com/marschall-lab/panacus-go/src/core"
	"github.com/marschall-lab/panacus-go/src/reporting"
	"github.com/marschall-lab/panacus-go/src/xlog"
)

var histFlags *analysisFlags

var histCmd = &cobra.Command{
	Use:   "hist",
	Short: "compute the coverage histogram (feature weight shared by exactly c groups)",
	Long:  `For each coverage count c, report the total feature weight shared by exactly c groups.`,
	Run: func(cmd *cobra.Command, args []string) {
		runHist()
	},
}

func init() {
	histFlags = addAnalysisFlags(histCmd)
	RootCmd.AddCommand(histCmd)
}

func runHist() {
	withLogging("hist", func(lg *xlog.Logger) error {
		req, closeInput, err := histFlags.buildRequest([]core.Analysis{core.Hist})
		if err != nil {
			return err
		}
		defer closeInput()

		result, warnings, err := core.Run(req)
		if err != nil {
			return err
		}
		lg.DrainWarnings(warnings)
		lg.Info("groups resolved: %d", result.NumGroups)
		if result.DuplicatePaths > 0 {
			lg.Warn("duplicate paths skipped: %d", result.DuplicatePaths)
		}

		out, closeOutput, err := histFlags.openOutput()
		if err != nil {
			return err
		}
		defer closeOutput()
		return reporting.WriteHist(out, result)
	})
}
