package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/salesplan/internal/cli/formatter"
)

func newSweepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Batch maintenance jobs, meant to be run periodically",
	}

	cmd.AddCommand(
		newSweepExpireCmd(app),
		newSweepWarnCmd(app),
	)

	return cmd
}

func newSweepExpireCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "expire",
		Short: "Expire overdue unreported plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Sweeps.ExpirePlans(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatSweepResult(result))
			return nil
		},
	}
}

func newSweepWarnCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "warn",
		Short: "Dispatch deadline warnings for plans nearing expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			events, err := app.Sweeps.DeadlineWarnings(ctx)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println("No plans in the warning band.")
				return nil
			}
			app.Notifier.Notify(ctx, events...)
			fmt.Printf("Dispatched %d deadline warnings\n", len(events))
			return nil
		},
	}
}
