package ports

import (
	"context"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
)

// NotificationEvent is the wire payload the outbox relay publishes for
// each outbound caregiver message.
type NotificationEvent struct {
	Identity   int64             `json:"identity"`
	Message    string            `json:"message"`
	Importance domain.Importance `json:"importance"`
}

// NotificationPublisher pushes notification events onto the delivery
// queue consumed by the messaging front end.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, evt NotificationEvent) error
}
