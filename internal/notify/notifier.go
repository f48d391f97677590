// Package notify dispatches admin alerts when an office enters the pending
// state. Dispatch is fire-and-forget: the write path never blocks on, or
// fails because of, delivery.
package notify

import (
	"context"
	"time"

	"github.com/deskhub/offices-api/internal/domain"
	"github.com/deskhub/offices-api/internal/repo/postgres"
	"github.com/deskhub/offices-api/pkg/events"
	"github.com/deskhub/offices-api/pkg/logger"
)

type Notifier interface {
	OfficePendingApproval(ctx context.Context, office *domain.Office)
}

// BusNotifier publishes one event per administrator account. Publish
// failures are logged and swallowed.
type BusNotifier struct {
	users postgres.UserRepository
	bus   events.Publisher
}

func NewBusNotifier(users postgres.UserRepository, bus events.Publisher) *BusNotifier {
	return &BusNotifier{users: users, bus: bus}
}

func (n *BusNotifier) OfficePendingApproval(ctx context.Context, office *domain.Office) {
	admins, err := n.users.ListAdmins(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list admins for notification", "error", err, "office_id", office.ID)
		return
	}

	for _, admin := range admins {
		event := events.OfficePendingApprovalEvent{
			OfficeID:    office.ID,
			OwnerID:     office.UserID,
			Title:       office.Title,
			AdminEmail:  admin.Email,
			AdminName:   admin.Name,
			RequestedAt: time.Now(),
		}
		if err := n.bus.Publish(ctx, events.OfficePendingApproval, event); err != nil {
			logger.ErrorContext(ctx, "failed to publish pending approval event",
				"error", err, "office_id", office.ID, "admin_id", admin.ID)
		}
	}
}

var _ Notifier = (*BusNotifier)(nil)
