package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

// Lookback windows per reminder class: an event older than its window on
// restart no longer produces a useful reminder and is left alone.
const (
	feedingLookback = 6 * time.Hour
	diaperLookback  = 8 * time.Hour
	awakeLookback   = 12 * time.Hour
)

// RecoveryBootstrap restores reminder coverage after a process restart
// without requiring caregivers to re-trigger anything: it repopulates the
// sleep tracker from the durable ongoing-sleep mirrors and re-arms the
// ladders from the most recent records inside each class's lookback
// window. The scan is best-effort and idempotent; running it twice never
// double-arms because arming replaces per (subject, class).
type RecoveryBootstrap struct {
	activities ports.ActivityRepository
	tracker    *StateTracker
	engine     *Engine
	now        func() time.Time
}

func NewRecoveryBootstrap(activities ports.ActivityRepository, tracker *StateTracker, engine *Engine) *RecoveryBootstrap {
	return &RecoveryBootstrap{
		activities: activities,
		tracker:    tracker,
		engine:     engine,
		now:        time.Now,
	}
}

// Run executes the full recovery scan. Individual failures are logged
// and do not abort the remaining steps.
func (r *RecoveryBootstrap) Run(ctx context.Context) error {
	now := r.now()

	ongoing, err := r.activities.ListOngoingSleeps(ctx)
	if err != nil {
		return fmt.Errorf("recovery: list ongoing sleeps: %w", err)
	}
	asleep := make(map[int64]bool, len(ongoing))
	for _, o := range ongoing {
		r.tracker.Restore(o.SubjectID, o.StartedAt)
		asleep[o.SubjectID] = true
	}
	if len(ongoing) > 0 {
		log.Printf("recovery: restored %d ongoing sleep session(s)", len(ongoing))
	}

	feedings, err := r.activities.LatestPerSubject(ctx, domain.KindFeeding, now.Add(-feedingLookback))
	if err != nil {
		log.Printf("recovery: feeding scan failed: %v", err)
	} else {
		for _, rec := range feedings {
			r.engine.ArmFeeding(ctx, rec.SubjectID, rec.OccurredAt)
		}
	}

	diapers, err := r.activities.LatestPerSubject(ctx, domain.KindDiaper, now.Add(-diaperLookback))
	if err != nil {
		log.Printf("recovery: diaper scan failed: %v", err)
	} else {
		for _, rec := range diapers {
			r.engine.ArmDiaper(rec.SubjectID, rec.OccurredAt)
		}
	}

	sleeps, err := r.activities.LatestPerSubject(ctx, domain.KindSleep, now.Add(-awakeLookback))
	if err != nil {
		log.Printf("recovery: sleep scan failed: %v", err)
	} else {
		for _, rec := range sleeps {
			// A subject currently asleep has no wake time to arm from.
			if asleep[rec.SubjectID] || rec.EndedAt == nil {
				continue
			}
			r.engine.ArmAwake(ctx, rec.SubjectID, *rec.EndedAt)
		}
	}

	return nil
}
