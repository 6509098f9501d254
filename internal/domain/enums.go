package domain

type PlanStatus string

const (
	PlanCreated  PlanStatus = "created"
	PlanReported PlanStatus = "reported"
)

// ManagerStatus is the manager control track. The zero value means no
// report has been filed yet; it is stored as SQL NULL.
type ManagerStatus string

const (
	ManagerNone      ManagerStatus = ""
	ManagerPending   ManagerStatus = "pending"
	ManagerApproved  ManagerStatus = "approved"
	ManagerRejected  ManagerStatus = "rejected"
	ManagerEscalated ManagerStatus = "escalated"
)

// BODStatus is the board monitoring track. The zero value means no
// report has been filed yet; it is stored as SQL NULL.
type BODStatus string

const (
	BODNone    BODStatus = ""
	BODPending BODStatus = "pending"
	BODSuccess BODStatus = "success"
	BODFailed  BODStatus = "failed"
)

// Finalized reports whether the board has made a terminal decision.
func (s BODStatus) Finalized() bool {
	return s == BODSuccess || s == BODFailed
}

// Terminal reports whether the manager has made a final decision.
// Escalation is a reversible reminder state, not a decision.
func (s ManagerStatus) Terminal() bool {
	return s == ManagerApproved || s == ManagerRejected
}

type LifecycleStatus string

const (
	LifecycleActive      LifecycleStatus = "active"
	LifecycleUnderReview LifecycleStatus = "under_review"
	LifecycleCompleted   LifecycleStatus = "completed"
	LifecycleRejected    LifecycleStatus = "rejected"
	LifecycleExpired     LifecycleStatus = "expired"
	LifecycleFailed      LifecycleStatus = "failed"
)

// TimeUnit is the unit for expiry and warning thresholds.
type TimeUnit string

const (
	UnitMinutes TimeUnit = "minutes"
	UnitHours   TimeUnit = "hours"
	UnitDays    TimeUnit = "days"
)

// LogField identifies which plan field a status log row tracks.
type LogField string

const (
	FieldManagerStatus LogField = "manager_status"
	FieldBODStatus     LogField = "bod_status"
	FieldRevision      LogField = "revision"
)
