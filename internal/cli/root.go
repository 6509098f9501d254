package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/salesplan/internal/notify"
	"github.com/alexanderramin/salesplan/internal/repository"
	"github.com/alexanderramin/salesplan/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Plans     service.PlanService
	Reviews   service.ReviewService
	Sweeps    service.SweepService
	DailyLogs service.DailyLogService
	Settings  repository.TimeSettingRepo
	Notifier  notify.Notifier

	actorID    string
	actorName  string
	superAdmin bool
}

// Actor builds the acting identity from the global flags.
func (a *App) Actor() service.Actor {
	name := a.actorName
	if name == "" {
		name = a.actorID
	}
	return service.Actor{ID: a.actorID, Name: name, SuperAdmin: a.superAdmin}
}

// NewRootCmd creates the top-level "salesplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "salesplan",
		Short: "Sales plan lifecycle and approval engine",
	}

	root.PersistentFlags().StringVar(&app.actorID, "actor", "cli", "Acting user ID")
	root.PersistentFlags().StringVar(&app.actorName, "actor-name", "", "Acting user display name")
	root.PersistentFlags().BoolVar(&app.superAdmin, "super", false, "Act with super-admin privileges (bypasses locks and quotas)")

	root.AddCommand(
		newPlanCmd(app),
		newReviewCmd(app),
		newSweepCmd(app),
		newSettingsCmd(app),
		newDailyCmd(app),
	)

	return root
}

// resolvePlanID matches an exact ID first, then a unique ID prefix.
func resolvePlanID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("plan ID is required")
	}

	plans, err := app.Plans.ListPlans(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range plans {
		if p.ID == input {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range plans {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("plan not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("plan ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
