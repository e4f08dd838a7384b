package cli

import (
	"errors"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dx-anywhere/dx-cli/pkg/deps"
	"github.com/dx-anywhere/dx-cli/pkg/manifest"
	"github.com/dx-anywhere/dx-cli/pkg/stack"
)

// newDepsCmd creates the deps command group.
func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps [dir]",
		Short: "List dev dependencies and their latest registry versions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDepsList,
	}

	cmd.AddCommand(newDepsAddCmd())
	cmd.AddCommand(newDepsUpdateCmd())
	cmd.AddCommand(newDepsDeleteCmd())

	return cmd
}

// gatherOptions adapts the context logger into the aggregator's diagnostic
// callback.
func gatherOptions(logger *charmlog.Logger) deps.Options {
	return deps.Options{
		Logger: func(format string, args ...any) {
			logger.Debugf(format, args...)
		},
	}
}

// runDepsList prints the dependency table. Listing is best effort: an
// unsupported stack, a missing manifest, or failed resolutions are reported
// but never fail the command.
func runDepsList(cmd *cobra.Command, args []string) error {
	dir := projectDir(args)
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	kind := stack.Detect(dir)
	if kind == stack.Unknown {
		printWarning("No supported stack detected in %s", dir)
		return nil
	}
	printInfo("Detected stack: %s", StyleHighlight.Render(kind.String()))

	infos := deps.Gather(cmd.Context(), dir, gatherOptions(logger))
	if len(infos) == 0 {
		printInfo("No dev dependencies found")
		return nil
	}

	printDepsTable(infos)
	prog.done(fmt.Sprintf("Resolved %d packages", len(infos)))
	return nil
}

func newDepsAddCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "add <name> [version]",
		Short: "Add a dev dependency to the project manifest",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			version := ""
			if len(args) > 1 {
				version = args[1]
			}

			if err := deps.Add(dir, name, version); err != nil {
				if errors.Is(err, manifest.ErrUnsupported) {
					printWarning("Adding dependencies is not supported for this ecosystem")
					printDetail("%v", err)
					return nil
				}
				return fmt.Errorf("add %s: %w", name, err)
			}

			shown := version
			if shown == "" {
				shown = manifest.Wildcard
			}
			printSuccess("Added %s %s", StyleHighlight.Render(name), StyleDim.Render(shown))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "project directory")
	return cmd
}

func newDepsUpdateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "update [name]",
		Short: "Rewrite dev dependencies to their latest registry versions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			logger := loggerFromContext(cmd.Context())

			result, err := deps.Update(cmd.Context(), dir, name, gatherOptions(logger))
			if err != nil {
				if errors.Is(err, manifest.ErrUnsupported) {
					printWarning("Updating dependencies is not supported for this ecosystem")
					printDetail("%v", err)
					return nil
				}
				return fmt.Errorf("update: %w", err)
			}

			for _, updated := range result.Updated {
				printSuccess("Updated %s", StyleHighlight.Render(updated))
			}
			// Skipped entries are partial success, not failure.
			for _, skipped := range result.Skipped {
				printWarning("Skipped %s (could not resolve latest version)", skipped)
			}
			if len(result.Updated) == 0 && len(result.Skipped) == 0 {
				printInfo("Nothing to update")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "project directory")
	return cmd
}

func newDepsDeleteCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"remove", "rm"},
		Short:   "Remove a dev dependency from the project manifest",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if err := deps.Delete(dir, name); err != nil {
				if errors.Is(err, manifest.ErrUnsupported) {
					printWarning("Deleting dependencies is not supported for this ecosystem")
					printDetail("%v", err)
					return nil
				}
				return fmt.Errorf("delete %s: %w", name, err)
			}

			printSuccess("Removed %s", StyleHighlight.Render(name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "project directory")
	return cmd
}
