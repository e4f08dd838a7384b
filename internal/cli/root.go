package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dx-anywhere/dx-cli/pkg/buildinfo"
)

// Execute runs the dx CLI and returns an error if any command fails. The
// provided context carries cancellation from signal handling in main.
//
// The function sets up the root command with all subcommands, configures
// logging based on the --verbose flag, and executes the command tree. The
// logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "dx",
		Short:        "dx improves the developer experience of any project",
		Long:         `dx inspects a project directory, detects its language ecosystem, and automates the chores around it: dev-dependency management across registries, local infrastructure via docker-compose, README badges, test watching, and a combined analysis report.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newDepsCmd())
	root.AddCommand(newServicesCmd())
	root.AddCommand(newTelemetryCmd())
	root.AddCommand(newBadgesCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newCleanCmd())

	return root.ExecuteContext(ctx)
}

// projectDir resolves the optional positional directory argument, defaulting
// to the current directory.
func projectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
