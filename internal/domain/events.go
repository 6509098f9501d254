package domain

// Event is a side effect emitted by a lifecycle transition for the
// notification collaborator to dispatch. Delivery transport is out of
// scope; transitions return events instead of firing hooks.
type Event interface {
	EventName() string
}

// ReportSubmitted is emitted when an execution report is filed.
type ReportSubmitted struct {
	PlanID       string
	CustomerName string
	ActivityCode string
	ActorName    string
}

func (ReportSubmitted) EventName() string { return "plan.reported" }

// PlanStatusChanged is emitted when either approval track moves to a
// non-pending value.
type PlanStatusChanged struct {
	PlanID       string
	CustomerName string
	ActivityCode string
	Status       string
	ActorName    string
}

func (PlanStatusChanged) EventName() string { return "plan.status_changed" }

// PlanDeadlineWarning is emitted by the warning sweep for plans in the
// early-warning band.
type PlanDeadlineWarning struct {
	PlanID       string
	CustomerName string
	ActivityCode string
	OwnerID      string
}

func (PlanDeadlineWarning) EventName() string { return "plan.deadline_warning" }
