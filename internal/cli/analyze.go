package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dx-anywhere/dx-cli/pkg/report"
	"github.com/dx-anywhere/dx-cli/pkg/stack"
)

// newAnalyzeCmd creates the analyze command.
func newAnalyzeCmd() *cobra.Command {
	var (
		noSave     bool
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "analyze [dir]",
		Short: "Produce the full project analysis report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			rep := report.Analyze(cmd.Context(), dir, gatherOptions(logger))
			if rep.Stack == stack.Unknown {
				printWarning("No supported stack detected in %s", dir)
			} else {
				printInfo("Detected stack: %s", StyleHighlight.Render(rep.Stack.String()))
			}
			if names := rep.Compose.Names(); len(names) > 0 {
				printInfo("Detected services: %s", StyleHighlight.Render(joinNames(names)))
			}
			prog.done(fmt.Sprintf("Analyzed %d dependencies", len(rep.Deps)))

			if noSave {
				fmt.Println()
				fmt.Print(rep.Markdown())
				return nil
			}

			path, err := rep.Write(dir, reportPath)
			if err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			printSuccess("Wrote analysis report")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "print the report instead of writing it")
	cmd.Flags().StringVar(&reportPath, "report-path", "", "report location relative to the project root (default "+report.DefaultPath+")")
	return cmd
}
