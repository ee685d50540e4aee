package ports

import (
	"context"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
)

// Notifier delivers one message to one caregiver identity. Fire-and-forget
// from the engine's perspective: failures are logged by callers and never
// retried by the engine.
type Notifier interface {
	Send(ctx context.Context, identity int64, message string, importance domain.Importance) error
}

// AgeProvider resolves a subject's age in months. ok=false means no birth
// date is known, which disables age-dependent reminder classes for that
// subject.
type AgeProvider interface {
	AgeInMonths(ctx context.Context, subjectID int64) (months int, ok bool, err error)
}

// QuietPrefStore answers whether an identity has opted into quiet-hours
// suppression of low-importance messages.
type QuietPrefStore interface {
	QuietHoursEnabled(ctx context.Context, identity int64) (bool, error)
	SetQuietHoursEnabled(ctx context.Context, identity int64, enabled bool) error
}
