package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/plantops/internal/config"
	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/db"
	"github.com/example/plantops/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the plantops database",
		Long: `Initialize the plantops database (default ~/.plantops/plantops.db) and
write a default user config to ~/.plantops/config.yaml if none exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetBool("seed")

			configPath, err := config.NewLoader(nil).EnsureUserConfig()
			if err != nil {
				return fmt.Errorf("failed to write user config: %w", err)
			}
			fmt.Printf("✓ Config at %s\n", configPath)

			dbPath := wire.Config().Database.Path
			if dbPath == "" {
				if dbPath, err = db.GetDBPath(); err != nil {
					return fmt.Errorf("failed to get database path: %w", err)
				}
			}

			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			fmt.Printf("✓ Database initialized at %s\n", dbPath)

			if seed {
				if err := db.SeedFixtures(database, calendar.DateOf(time.Now())); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Println("✓ Demo roster and tasks loaded")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  plantops engineer list")
			fmt.Println("  plantops task list --unassigned")
			fmt.Println("  plantops optimize run")
			return nil
		},
	}
	cmd.Flags().Bool("seed", false, "Load a demo roster and task set")
	return cmd
}

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(wire.Config())
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			fmt.Print(string(out))
			return nil
		},
	}
	return cmd
}
