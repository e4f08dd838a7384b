package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dx-anywhere/dx-cli/pkg/services"
)

// newServicesCmd creates the services command.
func newServicesCmd() *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "services [dir]",
		Short: "Detect infrastructure services and propose a docker-compose file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			compose := services.Detect(dir)
			names := compose.Names()
			if len(names) == 0 {
				printInfo("No infrastructure services detected")
				return nil
			}

			printInfo("Detected services: %s", StyleHighlight.Render(joinNames(names)))
			printServiceList(names)
			prog.done(fmt.Sprintf("Scanned %s", dir))

			if noSave {
				data, err := compose.YAML()
				if err != nil {
					return err
				}
				fmt.Println()
				fmt.Print(string(data))
				return nil
			}

			path, err := services.Write(dir, compose)
			if err != nil {
				return fmt.Errorf("write compose file: %w", err)
			}
			printSuccess("Wrote compose file")
			printFile(path)
			printNextStep("Start services", "docker compose -f "+path+" up -d")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "print the compose YAML instead of writing it")
	cmd.AddCommand(
		newServicesRunCmd(),
		newServicesStopCmd(),
		newServicesRestartCmd(),
		newServicesRemoveCmd(),
	)
	return cmd
}

func newServicesRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [dir]",
		Short: "Start the detected services with docker compose",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			logger := loggerFromContext(cmd.Context())

			ctl := newController(cmd, dir)
			err := ctl.Control(cmd.Context(), services.ActionUp)
			if errors.Is(err, services.ErrNoManifest) {
				// First run: generate the manifest before starting.
				compose := services.Detect(dir)
				if len(compose.Names()) == 0 {
					printInfo("No infrastructure services detected")
					return nil
				}
				path, werr := services.Write(dir, compose)
				if werr != nil {
					return fmt.Errorf("write compose file: %w", werr)
				}
				printInfo("Generated compose file")
				printFile(path)
				err = ctl.Control(cmd.Context(), services.ActionUp)
			}
			if err != nil {
				return err
			}
			logger.Debug("services started", "dir", dir)
			printSuccess("Services are up")
			return nil
		},
	}
}

func newServicesStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop [dir]",
		Short: "Stop the running services",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			if err := controlServices(cmd, dir, services.ActionStop); err != nil {
				return err
			}
			printSuccess("Services stopped")
			return nil
		},
	}
}

func newServicesRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart [dir]",
		Short: "Restart the running services",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			if err := controlServices(cmd, dir, services.ActionRestart); err != nil {
				return err
			}
			printSuccess("Services restarted")
			return nil
		},
	}
}

func newServicesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [dir]",
		Short: "Stop and remove the service containers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			if err := controlServices(cmd, dir, services.ActionDown); err != nil {
				return err
			}
			printSuccess("Services removed")
			return nil
		},
	}
}

func newController(cmd *cobra.Command, dir string) *services.Controller {
	logger := loggerFromContext(cmd.Context())
	return &services.Controller{
		Dir:    dir,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Logger: func(format string, args ...any) {
			logger.Warnf(format, args...)
		},
	}
}

func controlServices(cmd *cobra.Command, dir string, action services.Action) error {
	err := newController(cmd, dir).Control(cmd.Context(), action)
	if errors.Is(err, services.ErrNoManifest) {
		printWarning("No compose file found; run 'dx services' first")
		return nil
	}
	return err
}
