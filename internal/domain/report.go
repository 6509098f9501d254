package domain

import "time"

// ClosingProgress is the sentinel progress value meaning the deal is
// closed: no follow-up plan is generated for a closing report.
const ClosingProgress = "100%-Closing"

// Report is the single execution record attached 1:1 to a plan.
type Report struct {
	ID                string
	PlanID            string
	ExecutionDate     time.Time // date-only
	Location          string
	PIC               string
	Position          string
	ResultDescription string
	Progress          string
	IsSuccess         bool
	IsLate            bool // execution date after the plan's planning date

	// Seed fields for the generated follow-up plan.
	NextPlanningDate    *time.Time
	NextActivityType    string
	NextPlanDescription string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsClosing reports whether this report closes the deal.
func (r *Report) IsClosing() bool {
	return r.Progress == ClosingProgress
}
