package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dx-anywhere/dx-cli/pkg/telemetry"
)

// newTelemetryCmd creates the telemetry command. It provisions a local
// Grafana, Prometheus, Loki, Tempo, and OpenTelemetry collector stack
// alongside the detected infrastructure services.
func newTelemetryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "telemetry [dir]",
		Short: "Provision a local observability stack (Grafana, Prometheus, Loki, Tempo)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			res, err := telemetry.Apply(dir)
			if err != nil {
				return fmt.Errorf("provision telemetry: %w", err)
			}
			prog.done(fmt.Sprintf("Provisioned telemetry in %s", dir))

			printSuccess("Wrote telemetry configuration")
			for _, path := range res.ConfigPaths {
				printDetail("%s", path)
			}
			printSuccess("Updated compose file")
			printFile(res.ComposePath)
			printServiceList(res.Compose.Names())
			printNextStep("Start the stack", "dx services run "+dir)
			printNextStep("Open Grafana", "http://localhost:3000")
			return nil
		},
	}
}
