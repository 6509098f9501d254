package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/salesplan/internal/cli/formatter"
	"github.com/alexanderramin/salesplan/internal/domain"
	"github.com/alexanderramin/salesplan/internal/repository"
	"github.com/alexanderramin/salesplan/internal/service"
)

const dateLayout = "2006-01-02"

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage sales plans",
	}

	cmd.AddCommand(
		newPlanAddCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanReportCmd(app),
		newPlanReviseCmd(app),
		newPlanCodeCmd(app),
	)

	return cmd
}

func newPlanAddCmd(app *App) *cobra.Command {
	var customer, customerName, owner, ownerName, product, project, date, activity, desc string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			planningDate, err := time.Parse(dateLayout, date)
			if err != nil {
				return fmt.Errorf("invalid planning date %q: %w", date, err)
			}

			in := service.CreatePlanInput{
				CustomerID:   customer,
				CustomerName: customerName,
				OwnerID:      owner,
				OwnerName:    ownerName,
				ProjectName:  project,
				PlanningDate: planningDate,
				ActivityType: activity,
				Description:  desc,
			}
			if product != "" {
				in.ProductID = &product
			}

			p, err := app.Plans.CreatePlan(context.Background(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Created plan %s for %s (%s on %s)\n",
				p.ID, p.CustomerName, p.ActivityType, p.PlanningDate.Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Customer ID")
	cmd.Flags().StringVar(&customerName, "customer-name", "", "Customer display name")
	cmd.Flags().StringVar(&owner, "owner", "", "Owning sales user ID")
	cmd.Flags().StringVar(&ownerName, "owner-name", "", "Owning sales user name")
	cmd.Flags().StringVar(&product, "product", "", "Product ID (optional)")
	cmd.Flags().StringVar(&project, "project", "", "Project name (optional)")
	cmd.Flags().StringVar(&date, "date", "", "Planning date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&activity, "activity", "", "Activity type (Visit, Call, ...)")
	cmd.Flags().StringVar(&desc, "desc", "", "Plan description")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("activity")
	_ = cmd.MarkFlagRequired("desc")

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.ListPlans(context.Background())
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Println("No plans found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatPlanList(plans))
			return nil
		},
	}
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show plan details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.GetPlan(ctx, planID)
			if err != nil {
				return err
			}
			rep, err := app.Plans.GetReport(ctx, planID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			code, err := app.Plans.ActivityCode(ctx, planID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatPlanInspect(p, rep, code))
			return nil
		},
	}
}

func reportFlags(cmd *cobra.Command, in *reportFlagValues) {
	cmd.Flags().StringVar(&in.executed, "executed", "", "Execution date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.location, "location", "", "Where the activity took place")
	cmd.Flags().StringVar(&in.pic, "pic", "", "Person in charge met")
	cmd.Flags().StringVar(&in.position, "position", "", "PIC's position")
	cmd.Flags().StringVar(&in.result, "result", "", "Result description")
	cmd.Flags().StringVar(&in.progress, "progress", "", "Progress (e.g. 50%, "+domain.ClosingProgress+")")
	cmd.Flags().BoolVar(&in.success, "success", false, "Mark the activity as successful")
	cmd.Flags().StringVar(&in.nextDate, "next-date", "", "Next planning date (YYYY-MM-DD, required unless closing)")
	cmd.Flags().StringVar(&in.nextActivity, "next-activity", "", "Next activity type")
	cmd.Flags().StringVar(&in.nextDesc, "next-desc", "", "Next plan description")
}

type reportFlagValues struct {
	executed, location, pic, position, result, progress string
	success                                             bool
	nextDate, nextActivity, nextDesc                    string
}

func (v *reportFlagValues) toInput() (service.ReportInput, error) {
	executionDate, err := time.Parse(dateLayout, v.executed)
	if err != nil {
		return service.ReportInput{}, fmt.Errorf("invalid execution date %q: %w", v.executed, err)
	}
	in := service.ReportInput{
		ExecutionDate:       executionDate,
		Location:            v.location,
		PIC:                 v.pic,
		Position:            v.position,
		ResultDescription:   v.result,
		Progress:            v.progress,
		IsSuccess:           v.success,
		NextActivityType:    v.nextActivity,
		NextPlanDescription: v.nextDesc,
	}
	if v.nextDate != "" {
		nextDate, err := time.Parse(dateLayout, v.nextDate)
		if err != nil {
			return service.ReportInput{}, fmt.Errorf("invalid next planning date %q: %w", v.nextDate, err)
		}
		in.NextPlanningDate = &nextDate
	}
	return in, nil
}

func newPlanReportCmd(app *App) *cobra.Command {
	var flags reportFlagValues

	cmd := &cobra.Command{
		Use:   "report ID",
		Short: "File an execution report for a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			in, err := flags.toInput()
			if err != nil {
				return err
			}

			result, err := app.Plans.SubmitReport(ctx, planID, in, app.Actor())
			if err != nil {
				return err
			}
			app.Notifier.Notify(ctx, result.Events...)

			fmt.Printf("Reported plan %s (lifecycle: %s)\n", result.Plan.ID, result.Plan.LifecycleStatus)
			return nil
		},
	}

	reportFlags(cmd, &flags)
	_ = cmd.MarkFlagRequired("executed")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("pic")
	_ = cmd.MarkFlagRequired("position")
	_ = cmd.MarkFlagRequired("result")
	_ = cmd.MarkFlagRequired("progress")

	return cmd
}

func newPlanReviseCmd(app *App) *cobra.Command {
	var date, activity, desc string
	var withReport bool
	var flags reportFlagValues

	cmd := &cobra.Command{
		Use:   "revise ID",
		Short: "Revise a rejected or failed plan",
		Long: `Revise a plan. Without --with-report a new plan is branched off and the
original keeps its rejected history; with --with-report the original is
updated in place and its report replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}

			planningDate, err := time.Parse(dateLayout, date)
			if err != nil {
				return fmt.Errorf("invalid planning date %q: %w", date, err)
			}
			in := service.RevisionInput{
				PlanningDate: planningDate,
				ActivityType: activity,
				Description:  desc,
			}
			if withReport {
				rep, err := flags.toInput()
				if err != nil {
					return err
				}
				in.Report = &rep
			}

			result, err := app.Plans.Revise(ctx, planID, in, app.Actor())
			if err != nil {
				return err
			}
			app.Notifier.Notify(ctx, result.Events...)

			if withReport {
				fmt.Printf("Revised plan %s in place\n", result.Plan.ID)
			} else {
				fmt.Printf("Branched revision %s from plan %s\n", result.Plan.ID, planID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Revised planning date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&activity, "activity", "", "Revised activity type")
	cmd.Flags().StringVar(&desc, "desc", "", "Revised description")
	cmd.Flags().BoolVar(&withReport, "with-report", false, "Supply a replacement report and update the original in place")
	reportFlags(cmd, &flags)
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("activity")
	_ = cmd.MarkFlagRequired("desc")

	return cmd
}

func newPlanCodeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "code ID",
		Short: "Show a plan's derived activity code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			planID, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			code, err := app.Plans.ActivityCode(ctx, planID)
			if err != nil {
				return err
			}
			fmt.Println(code)
			return nil
		},
	}
}
