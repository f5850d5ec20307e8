package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/plantops/internal/ports/primary"
	"github.com/example/plantops/internal/wire"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage maintenance tasks",
	Long:  "Create, list, assign and move maintenance tasks through their lifecycle",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [location]",
	Short: "Create a new Open task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assetID, _ := cmd.Flags().GetString("asset")
		assetType, _ := cmd.Flags().GetString("asset-type")
		due, _ := cmd.Flags().GetString("due")
		taskType, _ := cmd.Flags().GetString("type")
		priority, _ := cmd.Flags().GetString("priority")
		notes, _ := cmd.Flags().GetString("notes")

		return wire.TaskAdapter().Create(context.Background(), primary.CreateTaskRequest{
			Location:  args[0],
			AssetID:   assetID,
			AssetType: assetType,
			DueDate:   due,
			Type:      taskType,
			Priority:  priority,
			Notes:     notes,
		})
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		assignee, _ := cmd.Flags().GetString("assignee")
		taskType, _ := cmd.Flags().GetString("type")
		unassigned, _ := cmd.Flags().GetBool("unassigned")
		limit, _ := cmd.Flags().GetInt("limit")

		return wire.TaskAdapter().List(context.Background(), primary.TaskFilters{
			Status:     status,
			AssigneeID: assignee,
			Type:       taskType,
			Unassigned: unassigned,
			Limit:      limit,
		})
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.TaskAdapter().Show(context.Background(), args[0])
		return err
	},
}

var taskAssignCmd = &cobra.Command{
	Use:   "assign [task-id] [engineer-id]",
	Short: "Assign a task to an engineer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.TaskAdapter().Assign(context.Background(), args[0], args[1])
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [task-id] [status]",
	Short: "Move a task to a new status",
	Long: `Move a task to a new status.

Statuses: Open, In Progress, Awaiting Parts, Parts Required, On Hold,
Requires Follow-up, Completed. Input such as "in_progress" is accepted.

Moving a task to Requires Follow-up creates a corrective task; the
--reason, --urgency, --due-days and --assign-original flags shape it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")
		reason, _ := cmd.Flags().GetString("reason")
		urgency, _ := cmd.Flags().GetString("urgency")
		dueDays, _ := cmd.Flags().GetInt("due-days")
		assignOriginal, _ := cmd.Flags().GetBool("assign-original")

		return wire.TaskAdapter().Transition(context.Background(), primary.TransitionRequest{
			TaskID:           args[0],
			Status:           args[1],
			Note:             note,
			FollowUpReason:   reason,
			FollowUpUrgency:  urgency,
			FollowUpDueDays:  dueDays,
			AssignToOriginal: assignOriginal,
		})
	},
}

var taskCorrectiveCmd = &cobra.Command{
	Use:   "corrective [task-id]",
	Short: "Create a corrective task from an existing task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")
		urgency, _ := cmd.Flags().GetString("urgency")
		dueDays, _ := cmd.Flags().GetInt("due-days")
		notes, _ := cmd.Flags().GetString("notes")
		assignOriginal, _ := cmd.Flags().GetBool("assign-original")

		return wire.TaskAdapter().Corrective(context.Background(), primary.CorrectiveTaskRequest{
			OriginalTaskID:   args[0],
			Reason:           reason,
			Urgency:          urgency,
			DueDaysOverride:  dueDays,
			Notes:            notes,
			AssignToOriginal: assignOriginal,
		})
	},
}

func init() {
	// task create flags
	taskCreateCmd.Flags().String("asset", "", "Asset ID")
	taskCreateCmd.Flags().String("asset-type", "", "Asset type (e.g. \"Gas Boiler\")")
	taskCreateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	taskCreateCmd.Flags().String("type", "", "Task type (default \"Planned Maintenance\")")
	taskCreateCmd.Flags().StringP("priority", "p", "", "Priority (High, Medium, Low)")
	taskCreateCmd.Flags().String("notes", "", "Notes")
	_ = taskCreateCmd.MarkFlagRequired("due")

	// task list flags
	taskListCmd.Flags().StringP("status", "s", "", "Filter by status")
	taskListCmd.Flags().String("assignee", "", "Filter by assignee")
	taskListCmd.Flags().String("type", "", "Filter by task type")
	taskListCmd.Flags().Bool("unassigned", false, "Only unassigned tasks")
	taskListCmd.Flags().Int("limit", 0, "Maximum number of tasks")

	// task status flags
	taskStatusCmd.Flags().StringP("note", "n", "", "Note appended to the task")
	taskStatusCmd.Flags().String("reason", "", "Follow-up reason")
	taskStatusCmd.Flags().String("urgency", "", "Follow-up urgency (Critical, High, Medium, Low)")
	taskStatusCmd.Flags().Int("due-days", 0, "Override the follow-up due window in days")
	taskStatusCmd.Flags().Bool("assign-original", false, "Assign the follow-up to the current assignee")

	// task corrective flags
	taskCorrectiveCmd.Flags().String("reason", "", "Reason for the corrective work")
	taskCorrectiveCmd.Flags().String("urgency", "", "Urgency (Critical, High, Medium, Low)")
	taskCorrectiveCmd.Flags().Int("due-days", 0, "Override the due window in days")
	taskCorrectiveCmd.Flags().String("notes", "", "Extra notes")
	taskCorrectiveCmd.Flags().Bool("assign-original", false, "Assign to the original task's assignee")

	// Register subcommands
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskAssignCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskCorrectiveCmd)
}

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	return taskCmd
}
