package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/plantops/internal/cli"
	"github.com/example/plantops/internal/version"
	"github.com/example/plantops/internal/wire"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "plantops",
		Short:   "Plantops - maintenance task lifecycle and assignment",
		Version: version.String(),
		Long: `Plantops tracks facilities maintenance tasks, assigns them to available
engineers each day, and links parts requests to corrective work.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			wire.SetConfigPath(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.plantops/config.yaml)")

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ConfigCmd())

	// Work
	rootCmd.AddCommand(cli.TaskCmd())
	rootCmd.AddCommand(cli.PartsCmd())
	rootCmd.AddCommand(cli.OptimizeCmd())

	// Roster
	rootCmd.AddCommand(cli.EngineerCmd())
	rootCmd.AddCommand(cli.HolidayCmd())
	rootCmd.AddCommand(cli.LeaveCmd())
	rootCmd.AddCommand(cli.NotificationsCmd())

	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
