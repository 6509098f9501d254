// Package notify dispatches lifecycle events to their recipients.
// Delivery transport is a collaborator concern; the engine only hands
// over events.
package notify

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/salesplan/internal/domain"
)

// Notifier receives lifecycle events for delivery.
type Notifier interface {
	Notify(ctx context.Context, events ...domain.Event)
}

// LogNotifier writes events to a structured logger. It stands in for a
// real delivery channel in the CLI and in tests.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a Notifier backed by the given logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, events ...domain.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case domain.ReportSubmitted:
			n.logger.InfoContext(ctx, "notification",
				"event", e.EventName(), "plan_id", e.PlanID,
				"customer", e.CustomerName, "code", e.ActivityCode, "by", e.ActorName)
		case domain.PlanStatusChanged:
			n.logger.InfoContext(ctx, "notification",
				"event", e.EventName(), "plan_id", e.PlanID,
				"customer", e.CustomerName, "code", e.ActivityCode,
				"status", e.Status, "by", e.ActorName)
		case domain.PlanDeadlineWarning:
			n.logger.InfoContext(ctx, "notification",
				"event", e.EventName(), "plan_id", e.PlanID,
				"customer", e.CustomerName, "code", e.ActivityCode, "owner", e.OwnerID)
		default:
			n.logger.InfoContext(ctx, "notification", "event", ev.EventName())
		}
	}
}

// Discard ignores all events.
type Discard struct{}

func (Discard) Notify(context.Context, ...domain.Event) {}
