package cmd

import (
	"github.com/spf13/cobra"

	"github.com/marschall-lab/panacus-go/src/core"
	"github.com/marschall-lab/panacus-go/src/reporting"
	"github.com/marschall-lab/panacus-go/src/xlog"
)

var infoFlags *analysisFlags

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "report basic graph statistics (segment/edge/path/group counts, total bp)",
	Long: `Runs only graph ingest and group resolution (no abundance table) and
reports structural counts independent of any coverage analysis.`,
	Run: func(cmd *cobra.Command, args []string) {
		runInfo()
	},
}

func init() {
	infoFlags = addAnalysisFlags(infoCmd)
	RootCmd.AddCommand(infoCmd)
}

func runInfo() {
	withLogging("info", func(lg *xlog.Logger) error {
		req, closeInput, err := infoFlags.buildRequest([]core.Analysis{core.Info})
		if err != nil {
			return err
		}
		defer closeInput()

		result, warnings, err := core.Run(req)
		if err != nil {
			return err
		}
		lg.DrainWarnings(warnings)

		out, closeOutput, err := infoFlags.openOutput()
		if err != nil {
			return err
		}
		defer closeOutput()
		return reporting.WriteInfo(out, result)
	})
}
