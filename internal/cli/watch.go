package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/dx-anywhere/dx-cli/pkg/watch"
)

// newWatchCmd creates the watch command.
func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Rerun the stack's test command whenever project files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			logger := loggerFromContext(cmd.Context())

			printInfo("Watching %s (ctrl-c to stop)", dir)
			runner := &watch.Runner{
				Dir:    dir,
				Stdout: os.Stdout,
				Stderr: os.Stderr,
				Logger: func(format string, a ...any) {
					logger.Infof(format, a...)
				},
			}

			err := runner.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
