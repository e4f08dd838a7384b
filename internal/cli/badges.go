package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dx-anywhere/dx-cli/pkg/badges"
	"github.com/dx-anywhere/dx-cli/pkg/services"
)

// newBadgesCmd creates the badges command group.
func newBadgesCmd() *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "badges [dir]",
		Short: "Maintain the README badge block for detected services",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)

			names := services.Detect(dir).Names()
			if noSave {
				fmt.Println(badges.Line(names))
				return nil
			}

			path, err := badges.Upsert(dir, names)
			if err != nil {
				return fmt.Errorf("update badges: %w", err)
			}
			printSuccess("Updated README badges")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "print the badge line instead of editing the README")
	cmd.AddCommand(newBadgesCleanCmd())
	return cmd
}

func newBadgesCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [dir]",
		Short: "Remove the managed badge block from the README",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			removed, err := badges.Clean(dir)
			if err != nil {
				return fmt.Errorf("clean badges: %w", err)
			}
			if !removed {
				printInfo("No README badges to remove")
				return nil
			}
			printSuccess("Removed README badges")
			return nil
		},
	}
}
