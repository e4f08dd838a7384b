package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dx-anywhere/dx-cli/pkg/badges"
)

// newCleanCmd creates the clean command. It removes everything dx
// generated: the .dx directory and the README badge block.
func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [dir]",
		Short: "Remove everything dx generated in the project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)

			dxDir := filepath.Join(dir, ".dx")
			if _, err := os.Stat(dxDir); err == nil {
				if err := os.RemoveAll(dxDir); err != nil {
					return fmt.Errorf("remove %s: %w", dxDir, err)
				}
				printSuccess("Removed %s", dxDir)
			}

			removed, err := badges.Clean(dir)
			if err != nil {
				return fmt.Errorf("clean badges: %w", err)
			}
			if removed {
				printSuccess("Removed README badges")
			} else {
				printInfo("No README badges to remove")
			}
			return nil
		},
	}
}
