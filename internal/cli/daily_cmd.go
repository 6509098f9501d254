package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/salesplan/internal/domain"
)

func newDailyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Record unplanned daily activity",
	}

	cmd.AddCommand(
		newDailyAddCmd(app),
		newDailyCodeCmd(app),
	)

	return cmd
}

func newDailyAddCmd(app *App) *cobra.Command {
	var customer, product, activity, desc, date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a daily activity log entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := &domain.DailyLog{
				CustomerID:   customer,
				ActivityType: activity,
				Description:  desc,
			}
			if product != "" {
				l.ProductID = &product
			}
			if date != "" {
				loggedAt, err := time.Parse(dateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
				l.LoggedAt = loggedAt
			}

			if err := app.DailyLogs.Create(context.Background(), l); err != nil {
				return err
			}
			fmt.Printf("Logged %s for customer %s (%s)\n", l.ActivityType, l.CustomerID, l.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Customer ID")
	cmd.Flags().StringVar(&product, "product", "", "Product ID (optional)")
	cmd.Flags().StringVar(&activity, "activity", "", "Activity type")
	cmd.Flags().StringVar(&desc, "desc", "", "What happened")
	cmd.Flags().StringVar(&date, "date", "", "Activity date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("activity")

	return cmd
}

func newDailyCodeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "code ID",
		Short: "Show a daily log entry's derived activity code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := app.DailyLogs.ActivityCode(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(code)
			return nil
		},
	}
}
