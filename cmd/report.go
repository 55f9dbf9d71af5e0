package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marschall-lab/panacus-go/src/core"
	"github.com/marschall-lab/panacus-go/src/reporting"
	"github.com/marschall-lab/panacus-go/src/xlog"
)

var reportFlags *analysisFlags

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "run every analysis and write one combined TSV report",
	Long: `Runs info, hist, growth, and table together and writes them as sectioned
TSV. HTML/visual report rendering (panacus's YAML-configured report) is an
external collaborator this engine doesn't implement - see spec.md §1.`,
	Run: func(cmd *cobra.Command, args []string) {
		runReport()
	},
}

func init() {
	reportFlags = addAnalysisFlags(reportCmd)
	RootCmd.AddCommand(reportCmd)
}

func runReport() {
	withLogging("report", func(lg *xlog.Logger) error {
		req, closeInput, err := reportFlags.buildRequest([]core.Analysis{
			core.Info, core.Hist, core.Growth, core.Table,
		})
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

		out, closeOutput, err := reportFlags.openOutput()
		if err != nil {
			return err
		}
		defer closeOutput()

		if _, err := fmt.Fprintln(out, "## info"); err != nil {
			return err
		}
		if err := reporting.WriteInfo(out, result); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, "## hist"); err != nil {
			return err
		}
		if err := reporting.WriteHist(out, result); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, "## growth"); err != nil {
			return err
		}
		if err := reporting.WriteGrowth(out, result); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, "## table"); err != nil {
			return err
		}
		return reporting.WriteTable(out, result)
	})
}
