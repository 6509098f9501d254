package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/salesplan/internal/domain"
	"github.com/alexanderramin/salesplan/internal/service"
)

const dateLayout = "2006-01-02"

// FormatPlanList renders plans as a table, newest last.
func FormatPlanList(plans []*domain.Plan) string {
	headers := []string{"ID", "CUSTOMER", "ACTIVITY", "DATE", "STATUS", "MGR", "BOD", "LIFECYCLE"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			shortID(p.ID),
			p.CustomerName,
			p.ActivityType,
			p.PlanningDate.Format(dateLayout),
			string(p.Status),
			TrackValue(string(p.ManagerStatus)),
			TrackValue(string(p.BODStatus)),
			LifecycleStyle(p.LifecycleStatus).Render(string(p.LifecycleStatus)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatPlanInspect renders a single plan, its report when present, and
// its derived activity code.
func FormatPlanInspect(p *domain.Plan, rep *domain.Report, code string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(p.CustomerName), Dim(code)))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("ID:"), p.ID))
	if p.ProjectName != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Project:"), p.ProjectName))
	}
	b.WriteString(fmt.Sprintf("%s %s (%s)\n", Dim("Owner:"), p.OwnerName, p.OwnerID))
	b.WriteString(fmt.Sprintf("%s %s on %s\n", Dim("Activity:"), p.ActivityType, p.PlanningDate.Format(dateLayout)))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Description:"), p.Description))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		Dim("Status:"), string(p.Status),
		Dim("Manager:"), TrackValue(string(p.ManagerStatus)),
		Dim("BOD:"), TrackValue(string(p.BODStatus))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		Dim("Lifecycle:"), LifecycleStyle(p.LifecycleStatus).Render(string(p.LifecycleStatus))))

	if rep != nil {
		b.WriteString("\n" + Header("Report") + "\n")
		late := ""
		if rep.IsLate {
			late = "  " + StyleYellow.Render("(late)")
		}
		b.WriteString(fmt.Sprintf("%s %s%s\n", Dim("Executed:"), rep.ExecutionDate.Format(dateLayout), late))
		b.WriteString(fmt.Sprintf("%s %s, %s (%s)\n", Dim("Met:"), rep.PIC, rep.Position, rep.Location))
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Result:"), rep.ResultDescription))
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Progress:"), rep.Progress))
		if rep.NextPlanningDate != nil {
			b.WriteString(fmt.Sprintf("%s %s %s\n",
				Dim("Next:"), rep.NextActivityType, rep.NextPlanningDate.Format(dateLayout)))
		}
	}

	return RenderBox("Plan", b.String())
}

// FormatStatusChangeInfo renders the per-track change budget.
func FormatStatusChangeInfo(info *service.StatusChangeInfo) string {
	headers := []string{"TRACK", "REMAINING", "CAN CHANGE", "GRACE LEFT"}
	rows := [][]string{
		trackRow("manager", info.Manager),
		trackRow("bod", info.BOD),
	}
	return RenderTable(headers, rows)
}

func trackRow(name string, t service.TrackInfo) []string {
	can := StyleRed.Render("no")
	if t.CanChange {
		can = StyleGreen.Render("yes")
	}
	grace := "-"
	if t.GraceSeconds > 0 {
		grace = (time.Duration(t.GraceSeconds) * time.Second).String()
	}
	return []string{name, fmt.Sprintf("%d/%d", t.Remaining, t.Max), can, grace}
}

// FormatSweepResult renders an expiry sweep outcome in one line.
func FormatSweepResult(r *service.SweepResult) string {
	return fmt.Sprintf("Scanned %d, expired %s, skipped %d",
		r.Scanned, StyleYellow.Render(fmt.Sprintf("%d", r.Applied)), r.Skipped)
}

// FormatStatusLogs renders the transition ledger for one plan.
func FormatStatusLogs(logs []*domain.PlanStatusLog) string {
	headers := []string{"WHEN", "FIELD", "FROM", "TO", "ACTOR", "NOTES"}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		to := TrackValue(l.NewValue)
		if l.IsGracePeriod {
			to += Dim(" (grace)")
		}
		rows = append(rows, []string{
			l.CreatedAt.Format("2006-01-02 15:04"),
			string(l.Field),
			TrackValue(l.OldValue),
			to,
			l.ActorID,
			l.Notes,
		})
	}
	return RenderTable(headers, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
