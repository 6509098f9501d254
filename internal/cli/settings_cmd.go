package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/salesplan/internal/domain"
	"github.com/alexanderramin/salesplan/internal/repository"
)

// weekdaysValue parses a comma-separated weekday list as a flag value.
type weekdaysValue struct {
	days *[]time.Weekday
}

var _ pflag.Value = (*weekdaysValue)(nil)

func (v *weekdaysValue) String() string {
	if v.days == nil {
		return ""
	}
	return domain.FormatWeekdays(*v.days)
}

func (v *weekdaysValue) Set(s string) error {
	if s == "" {
		*v.days = nil
		return nil
	}
	parsed := domain.ParseWeekdays(s)
	if len(parsed) == 0 {
		return fmt.Errorf("no valid weekday in %q", s)
	}
	*v.days = parsed
	return nil
}

func (v *weekdaysValue) Type() string { return "weekdays" }

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change the engine time configuration",
	}

	cmd.AddCommand(
		newSettingsShowCmd(app),
		newSettingsSetCmd(app),
	)

	return cmd
}

func newSettingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Settings.Get(context.Background())
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					fmt.Println("No configuration stored; engine runs with expiry disabled.")
					return nil
				}
				return err
			}

			days := domain.FormatWeekdays(s.AllowedCreationDays)
			if days == "" {
				days = "any"
			}
			fmt.Printf("Plan expiry:       %g %s\n", s.PlanExpiryValue, s.PlanExpiryUnit)
			fmt.Printf("Warning threshold: %g %s\n", s.PlanningWarningThreshold, s.PlanningTimeUnit)
			fmt.Printf("Creation days:     %s\n", days)
			fmt.Printf("Testing mode:      %t\n", s.TestingMode)
			fmt.Printf("Time offset:       %d days\n", s.TimeOffsetDays)
			return nil
		},
	}
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var expiryValue, warningValue float64
	var expiryUnit, warningUnit string
	var allowedDays []time.Weekday
	var testing bool
	var offset int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the configuration (unset flags keep their current value)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			s, err := app.Settings.Get(ctx)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					return err
				}
				s = domain.DefaultTimeSetting()
			}

			if cmd.Flags().Changed("expiry") {
				s.PlanExpiryValue = expiryValue
			}
			if cmd.Flags().Changed("expiry-unit") {
				s.PlanExpiryUnit = domain.ParseTimeUnit(expiryUnit)
			}
			if cmd.Flags().Changed("warning") {
				s.PlanningWarningThreshold = warningValue
			}
			if cmd.Flags().Changed("warning-unit") {
				s.PlanningTimeUnit = domain.ParseTimeUnit(warningUnit)
			}
			if cmd.Flags().Changed("days") {
				s.AllowedCreationDays = allowedDays
			}
			if cmd.Flags().Changed("testing") {
				s.TestingMode = testing
			}
			if cmd.Flags().Changed("offset") {
				s.TimeOffsetDays = offset
			}
			s.UpdatedAt = time.Now().UTC()

			if err := app.Settings.Upsert(ctx, s); err != nil {
				return err
			}
			fmt.Println("Configuration updated")
			return nil
		},
	}

	cmd.Flags().Float64Var(&expiryValue, "expiry", 0, "Plan expiry threshold value")
	cmd.Flags().StringVar(&expiryUnit, "expiry-unit", "", "Plan expiry unit (minutes|hours|days)")
	cmd.Flags().Float64Var(&warningValue, "warning", 0, "Planning warning threshold value")
	cmd.Flags().StringVar(&warningUnit, "warning-unit", "", "Planning warning unit (minutes|hours|days)")
	cmd.Flags().Var(&weekdaysValue{days: &allowedDays}, "days", "Allowed plan-creation weekdays, comma-separated (empty = any)")
	cmd.Flags().BoolVar(&testing, "testing", false, "Enable testing mode (lifts the creation-day restriction)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Day offset added to real time to simulate the future")

	return cmd
}
