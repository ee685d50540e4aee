package outbox

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

// notificationEventType tags outbox rows carrying caregiver messages so
// the relay knows how to decode them.
const notificationEventType = "caregiver.notification"

// Writer implements ports.Notifier by appending notification events to the
// transactional outbox. The relay process picks them up via LISTEN/NOTIFY
// and publishes them to the delivery queue, so a message survives an engine
// crash between "decided to send" and "actually sent".
type Writer struct {
	db *sql.DB
}

var _ ports.Notifier = (*Writer)(nil)

func NewWriter(db *sql.DB) *Writer {
	return &Writer{db: db}
}

func (w *Writer) Send(ctx context.Context, identity int64, message string, importance domain.Importance) error {
	payload, err := json.Marshal(ports.NotificationEvent{
		Identity:   identity,
		Message:    message,
		Importance: importance,
	})
	if err != nil {
		return err
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox_events (id, event_type, payload, created_at)
         VALUES ($1, $2, $3, NOW())`,
		id, notificationEventType, payload,
	)
	if err != nil {
		return err
	}

	// Wake the relay immediately instead of waiting for its periodic sweep.
	_, err = tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", outboxChannelName, id)
	if err != nil {
		return err
	}

	return tx.Commit()
}
