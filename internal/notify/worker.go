package notify

import (
	"context"
	"encoding/json"

	"github.com/deskhub/offices-api/internal/mailer"
	"github.com/deskhub/offices-api/pkg/events"
	"github.com/deskhub/offices-api/pkg/logger"
)

// Worker consumes pending-approval events and emails the targeted admin.
// A queue subscription shares the load across replicas.
type Worker struct {
	bus    events.Subscriber
	mailer mailer.Service
}

func NewWorker(bus events.Subscriber, m mailer.Service) *Worker {
	return &Worker{bus: bus, mailer: m}
}

func (w *Worker) Run(ctx context.Context) error {
	err := w.bus.QueueSubscribe(events.OfficePendingApproval, "notify", func(msg *events.Message) {
		var event events.OfficePendingApprovalEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("failed to decode pending approval event", "error", err)
			return
		}

		if err := w.mailer.SendOfficePendingApproval(
			event.AdminEmail, event.AdminName, event.Title, event.OfficeID,
		); err != nil {
			logger.Error("failed to send pending approval email",
				"error", err, "office_id", event.OfficeID, "admin_email", event.AdminEmail)
		}
	})
	if err != nil {
		return err
	}

	logger.Info("notify worker subscribed", "subject", events.OfficePendingApproval)

	<-ctx.Done()
	return ctx.Err()
}
