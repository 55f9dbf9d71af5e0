package cmd

import (
	"github.com/spf13/cobra"

	"github.com/marschall-lab/panacus-go/src/core"
	"github.com/marschall-lab/panacus-go/src/reporting"
	"github.com/marschall-lab/panacus-go/src/xlog"
)

var orderedHistgrowthFlags *analysisFlags

var orderedHistgrowthCmd = &cobra.Command{
	Use:   "ordered-histgrowth",
	Short: "compute the coverage histogram and the growth curve for one fixed group order",
	Long: `Like histgrowth, but uses a single fixed permutation of groups (the
request's --order file, or first-seen order) instead of averaging over every
permutation in closed form.`,
	Run: func(cmd *cobra.Command, args []string) {
		runOrderedHistgrowth()
	},
}

func init() {
	orderedHistgrowthFlags = addAnalysisFlags(orderedHistgrowthCmd)
	RootCmd.AddCommand(orderedHistgrowthCmd)
}

func runOrderedHistgrowth() {
	withLogging("ordered-histgrowth", func(lg *xlog.Logger) error {
		req, closeInput, err := orderedHistgrowthFlags.buildRequest([]core.Analysis{core.OrderedHistGrowth})
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

		out, closeOutput, err := orderedHistgrowthFlags.openOutput()
		if err != nil {
			return err
		}
		defer closeOutput()
		if err := reporting.WriteHist(out, result); err != nil {
			return err
		}
		return reporting.WriteOrderedGrowth(out, result)
	})
}
