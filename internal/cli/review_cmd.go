package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/salesplan/internal/cli/formatter"
	"github.com/alexanderramin/salesplan/internal/domain"
	"github.com/alexanderramin/salesplan/internal/service"
)

func newReviewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Manager and BOD review actions",
	}

	cmd.AddCommand(
		newReviewManagerCmd(app),
		newReviewBODCmd(app),
		newReviewFailCmd(app),
		newReviewInfoCmd(app),
		newReviewLogsCmd(app),
		newReviewResetCmd(app),
	)

	return cmd
}

func newReviewManagerCmd(app *App) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "manager ID STATUS",
		Short: "Set the manager review status (pending|approved|rejected|escalated)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}

			result, err := app.Reviews.UpdateManagerStatus(ctx, planID, domain.ManagerStatus(args[1]), app.Actor(), notes)
			if err != nil {
				if errors.Is(err, service.ErrUnchanged) {
					fmt.Printf("Manager status already %s, nothing to do\n", args[1])
					return nil
				}
				return err
			}
			app.Notifier.Notify(ctx, result.Events...)

			fmt.Printf("Manager status of %s set to %s (lifecycle: %s)\n",
				result.Plan.ID, result.Plan.ManagerStatus, result.Plan.LifecycleStatus)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Reviewer notes for the audit log")
	return cmd
}

func newReviewBODCmd(app *App) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "bod ID STATUS",
		Short: "Set the BOD monitoring status (pending|success|failed)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}

			result, err := app.Reviews.UpdateBODStatus(ctx, planID, domain.BODStatus(args[1]), app.Actor(), notes)
			if err != nil {
				if errors.Is(err, service.ErrUnchanged) {
					fmt.Printf("BOD status already %s, nothing to do\n", args[1])
					return nil
				}
				return err
			}
			app.Notifier.Notify(ctx, result.Events...)

			fmt.Printf("BOD status of %s set to %s (lifecycle: %s)\n",
				result.Plan.ID, result.Plan.BODStatus, result.Plan.LifecycleStatus)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Reviewer notes for the audit log")
	return cmd
}

func newReviewFailCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fail ID",
		Short: "Force a plan into the failed state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			result, err := app.Reviews.MarkFailed(ctx, planID, app.Actor())
			if err != nil {
				return err
			}
			fmt.Printf("Marked plan %s as failed\n", result.Plan.ID)
			return nil
		},
	}
}

func newReviewInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info ID",
		Short: "Show remaining changes and grace windows for a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			info, err := app.Reviews.StatusChangeInfo(ctx, planID, app.Actor())
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatStatusChangeInfo(info))
			return nil
		},
	}
}

func newReviewLogsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logs ID",
		Short: "Show the status transition ledger for a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			logs, err := app.Reviews.ListStatusLogs(ctx, planID)
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				fmt.Println("No status changes recorded.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatStatusLogs(logs))
			return nil
		},
	}
}

func newReviewResetCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset-logs [ID]",
		Short: "Delete the status ledger for one plan, or everything with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if all {
				if err := app.Reviews.ResetAllStatusLogs(ctx, app.Actor()); err != nil {
					return err
				}
				fmt.Println("Truncated all status logs")
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("plan ID is required unless --all is given")
			}
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Reviews.ResetStatusLogs(ctx, planID, app.Actor()); err != nil {
				return err
			}
			fmt.Printf("Reset status logs for plan %s\n", planID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Truncate the entire ledger")
	return cmd
}
