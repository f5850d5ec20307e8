package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/plantops/internal/ports/primary"
	"github.com/example/plantops/internal/wire"
)

var partsCmd = &cobra.Command{
	Use:   "parts",
	Short: "Manage parts requests",
	Long: `Raise parts requests against tasks and record their progress.

A request moves Requested -> Ordered -> Received -> Installed. Receiving
parts creates a corrective task to install them; installing completes it.`,
}

var partsRequestCmd = &cobra.Command{
	Use:   "request [task-id] [description]",
	Short: "Raise a parts request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, _ := cmd.Flags().GetInt("quantity")
		urgency, _ := cmd.Flags().GetString("urgency")

		return wire.PartsAdapter().Request(context.Background(), primary.CreatePartsRequest{
			TaskID:      args[0],
			Description: args[1],
			Quantity:    quantity,
			Urgency:     urgency,
		})
	},
}

var partsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List parts requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, _ := cmd.Flags().GetString("task")
		status, _ := cmd.Flags().GetString("status")

		return wire.PartsAdapter().List(context.Background(), primary.PartsRequestFilters{
			TaskID: taskID,
			Status: status,
		})
	},
}

var partsOrderedCmd = &cobra.Command{
	Use:   "ordered [request-id]",
	Short: "Record that parts were ordered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.PartsAdapter().Ordered(context.Background(), args[0])
	},
}

var partsReceivedCmd = &cobra.Command{
	Use:   "received [request-id]",
	Short: "Record that parts arrived and schedule their installation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.PartsAdapter().Received(context.Background(), args[0])
	},
}

var partsInstalledCmd = &cobra.Command{
	Use:   "installed [request-id]",
	Short: "Record that parts were installed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.PartsAdapter().Installed(context.Background(), args[0])
	},
}

var partsCancelCmd = &cobra.Command{
	Use:   "cancel [request-id]",
	Short: "Cancel a parts request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.PartsAdapter().Cancel(context.Background(), args[0])
	},
}

func init() {
	partsRequestCmd.Flags().IntP("quantity", "q", 1, "Quantity")
	partsRequestCmd.Flags().StringP("urgency", "u", "Medium", "Urgency (Critical, High, Medium, Low)")

	partsListCmd.Flags().String("task", "", "Filter by task")
	partsListCmd.Flags().StringP("status", "s", "", "Filter by status")

	partsCmd.AddCommand(partsRequestCmd)
	partsCmd.AddCommand(partsListCmd)
	partsCmd.AddCommand(partsOrderedCmd)
	partsCmd.AddCommand(partsReceivedCmd)
	partsCmd.AddCommand(partsInstalledCmd)
	partsCmd.AddCommand(partsCancelCmd)
}

// PartsCmd returns the parts command
func PartsCmd() *cobra.Command {
	return partsCmd
}
