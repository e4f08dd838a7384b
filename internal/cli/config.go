package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dx-anywhere/dx-cli/pkg/project"
)

// newConfigCmd creates the config command group backed by the project's
// .dx/config.json store.
func newConfigCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the project configuration store",
	}
	cmd.PersistentFlags().StringVarP(&dir, "dir", "d", ".", "project directory")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all configuration entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := project.NewStore(dir).List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No configuration entries")
				return nil
			}
			for _, e := range entries {
				fmt.Println(StyleHighlight.Render(e.Key) + " " + StyleDim.Render("=") + " " + StyleValue.Render(e.Value))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Add a new configuration entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := project.NewStore(dir).Set(args[0], args[1])
			if errors.Is(err, project.ErrExists) {
				printWarning("Key %s already exists, use update to change it", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			printSuccess("Set %s", StyleHighlight.Render(args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "update <key> <value>",
		Short: "Change an existing configuration entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := project.NewStore(dir).Update(args[0], args[1])
			if errors.Is(err, project.ErrMissing) {
				printWarning("Key %s does not exist, use set to create it", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			printSuccess("Updated %s", StyleHighlight.Render(args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a configuration entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existed, err := project.NewStore(dir).Delete(args[0])
			if err != nil {
				return err
			}
			if !existed {
				printInfo("Key %s was not set", args[0])
				return nil
			}
			printSuccess("Deleted %s", StyleHighlight.Render(args[0]))
			return nil
		},
	})

	return cmd
}
