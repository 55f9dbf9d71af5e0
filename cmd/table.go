package cmd

import (
	"github.com/spf13/cobra"

	"github.com/marschall-lab/panacus-go/src/core"
	"github.com/marschall-lab/panacus-go/src/reporting"
	"github.com/marschall-lab/panacus-go/src/xlog"
)

var tableFlags *analysisFlags

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "write the feature-by-group coverage matrix",
	Long: `For each feature, report which groups cover it (one 0/1 column per
group), closed by a row of per-group total covered weights.`,
	Run: func(cmd *cobra.Command, args []string) {
		runTable()
	},
}

func init() {
	tableFlags = addAnalysisFlags(tableCmd)
	RootCmd.AddCommand(tableCmd)
}

func runTable() {
	withLogging("table", func(lg *xlog.Logger) error {
		req, closeInput, err := tableFlags.buildRequest([]core.Analysis{core.Table})
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

		out, closeOutput, err := tableFlags.openOutput()
		if err != nil {
			return err
		}
		defer closeOutput()
		return reporting.WriteTable(out, result)
	})
}
