package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/plantops/internal/wire"
)

// OptimizeCmd returns the optimize command
func OptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run the daily assignment optimizer",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Assign open tasks to available engineers",
		Long: `Run one optimizer pass.

Open, unassigned tasks due within the configured window are scored against
every available engineer and assigned to the best candidate above the
minimum score. Overdue tasks go first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			defer wire.Shutdown(wire.Config().Optimizer.NotifyDrainTimeout)

			_, err := wire.OptimizerAdapter().Run(context.Background(), date)
			return err
		},
	}
	runCmd.Flags().String("date", "", "Reference date (YYYY-MM-DD, default today)")

	cmd.AddCommand(runCmd)
	return cmd
}
