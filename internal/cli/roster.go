package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/plantops/internal/core/skill"
	"github.com/example/plantops/internal/ports/primary"
	"github.com/example/plantops/internal/wire"
)

// EngineerCmd returns the engineer command
func EngineerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engineer",
		Short: "Manage the engineer roster",
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add an engineer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			skills, _ := cmd.Flags().GetString("skills")
			email, _ := cmd.Flags().GetString("email")

			eng, err := wire.RosterService().AddEngineer(context.Background(), primary.AddEngineerRequest{
				Name:   args[0],
				Role:   role,
				Skills: skill.Parse(skills),
				Email:  email,
			})
			if err != nil {
				return fmt.Errorf("failed to add engineer: %w", err)
			}
			fmt.Printf("✓ Added %s %s (%s)\n", eng.Role, eng.Name, eng.ID)
			return nil
		},
	}
	addCmd.Flags().String("role", "", "Role (Engineer, Technician, Manager, Viewer)")
	addCmd.Flags().String("skills", "", "Comma-separated skills")
	addCmd.Flags().String("email", "", "Email address")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List engineers",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")

			engineers, err := wire.RosterService().ListEngineers(context.Background(), role)
			if err != nil {
				return err
			}
			if len(engineers) == 0 {
				fmt.Println("No engineers found.")
				return nil
			}

			fmt.Printf("\n%-9s %-20s %-11s %s\n", "ID", "NAME", "ROLE", "SKILLS")
			fmt.Println("────────────────────────────────────────────────────────────────")
			for _, e := range engineers {
				fmt.Printf("%-9s %-20s %-11s %s\n", e.ID, e.Name, e.Role, strings.Join(e.Skills, ", "))
			}
			fmt.Println()
			return nil
		},
	}
	listCmd.Flags().String("role", "", "Filter by role")

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}

// HolidayCmd returns the holiday command
func HolidayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holiday",
		Short: "Manage the holiday calendar",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [date] [label]",
		Short: "Add a holiday (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.RosterService().AddHoliday(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to add holiday: %w", err)
			}
			fmt.Printf("✓ Added holiday %s: %s\n", args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove [date]",
		Short: "Remove a holiday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.RosterService().RemoveHoliday(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Removed holiday %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List holidays",
		RunE: func(cmd *cobra.Command, args []string) error {
			holidays, err := wire.RosterService().ListHolidays(context.Background())
			if err != nil {
				return err
			}
			if len(holidays) == 0 {
				fmt.Println("No holidays configured.")
				return nil
			}
			for _, h := range holidays {
				fmt.Printf("%s  %s\n", h.Date, h.Label)
			}
			return nil
		},
	})

	return cmd
}

// LeaveCmd returns the leave command
func LeaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Manage engineer leave",
		Long:  "Request, approve and reject leave. Only approved leave blocks assignment.",
	}

	requestCmd := &cobra.Command{
		Use:   "request [engineer-id] [start] [end]",
		Short: "Request leave (dates inclusive, YYYY-MM-DD)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reason, _ := cmd.Flags().GetString("reason")

			req, err := wire.RosterService().RequestLeave(context.Background(), primary.LeaveRequestInput{
				EngineerID: args[0],
				StartDate:  args[1],
				EndDate:    args[2],
				Reason:     reason,
			})
			if err != nil {
				return fmt.Errorf("failed to request leave: %w", err)
			}
			fmt.Printf("✓ Leave request %s for %s: %s .. %s [%s]\n", req.ID, req.EngineerID, req.StartDate, req.EndDate, req.Status)
			return nil
		},
	}
	requestCmd.Flags().String("reason", "", "Reason")

	decide := func(use, done, short string, approve bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " [leave-id]",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := wire.RosterService().DecideLeave(context.Background(), args[0], approve); err != nil {
					return err
				}
				fmt.Printf("✓ Leave request %s %s\n", args[0], done)
				return nil
			},
		}
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List leave requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			engineerID, _ := cmd.Flags().GetString("engineer")
			status, _ := cmd.Flags().GetString("status")

			requests, err := wire.RosterService().ListLeave(context.Background(), engineerID, status)
			if err != nil {
				return err
			}
			if len(requests) == 0 {
				fmt.Println("No leave requests found.")
				return nil
			}
			for _, r := range requests {
				fmt.Printf("%-10s %-9s %s .. %s  %-9s %s\n", r.ID, r.EngineerID, r.StartDate, r.EndDate, r.Status, r.Reason)
			}
			return nil
		},
	}
	listCmd.Flags().String("engineer", "", "Filter by engineer")
	listCmd.Flags().StringP("status", "s", "", "Filter by status (pending, approved, rejected)")

	cmd.AddCommand(requestCmd,
		decide("approve", "approved", "Approve a leave request", true),
		decide("reject", "rejected", "Reject a leave request", false),
		listCmd)
	return cmd
}

// NotificationsCmd returns the notifications command
func NotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show the in-app notification log",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipient, _ := cmd.Flags().GetString("recipient")
			limit, _ := cmd.Flags().GetInt("limit")

			entries, err := wire.RosterService().ListNotifications(context.Background(), recipient, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No notifications.")
				return nil
			}
			for _, n := range entries {
				fmt.Printf("%s  %-9s %s\n", n.CreatedAt, n.RecipientID, n.Title)
				fmt.Printf("    %s\n", n.Message)
			}
			return nil
		},
	}
	cmd.Flags().String("recipient", "", "Filter by recipient engineer ID")
	cmd.Flags().Int("limit", 20, "Maximum entries")
	return cmd
}
