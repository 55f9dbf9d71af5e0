package cmd

import (
	"github.com/spf13/cobra"

	"github.com/marschall-lab/panacus-go/src/core"
	"github.com/marschall-lab/panacus-go/src/reporting"
	"github.com/marschall-lab/panacus-go/src/xlog"
)

var growthFlags *analysisFlags

var growthCmd = &cobra.Command{
	Use:   "growth",
	Short: "compute the expected pangenome growth curve (exact, not sampled)",
	Long: `For each rank k, report the expected cumulative weight covered after k
groups have been added, averaged over random permutations in closed form.`,
	Run: func(cmd *cobra.Command, args []string) {
		runGrowth()
	},
}

func init() {
	growthFlags = addAnalysisFlags(growthCmd)
	RootCmd.AddCommand(growthCmd)
}

func runGrowth() {
	withLogging("growth", func(lg *xlog.Logger) error {
		req, closeInput, err := growthFlags.buildRequest([]core.Analysis{core.Growth})
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

		out, closeOutput, err := growthFlags.openOutput()
		if err != nil {
			return err
		}
		defer closeOutput()
		return reporting.WriteGrowth(out, result)
	})
}
