package domain

import "time"

// DailyLog is a standalone daily activity record. It shares the
// activity-code lineage logic with Plan but has no approval lifecycle.
type DailyLog struct {
	ID           string
	Seq          int64
	CustomerID   string
	ProductID    *string
	ActivityType string
	Description  string
	LoggedAt     time.Time
	CreatedAt    time.Time
}
