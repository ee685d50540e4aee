package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

// StateTracker is the authoritative in-memory answer to "is the subject
// asleep, and since when", kept consistent with the durable ongoing-sleep
// mirror so a restart can reconstruct it. All times are treated as
// absolute instants; the tracker never interprets local wall-clock
// fields, so sessions spanning midnight need no special handling.
type StateTracker struct {
	mu         sync.RWMutex
	sleeping   map[int64]time.Time
	activities ports.ActivityRepository
}

func NewStateTracker(activities ports.ActivityRepository) *StateTracker {
	return &StateTracker{
		sleeping:   make(map[int64]time.Time),
		activities: activities,
	}
}

// IsAsleep is an O(1) in-memory lookup with no storage round-trip.
func (t *StateTracker) IsAsleep(subjectID int64) (bool, time.Time) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	start, ok := t.sleeping[subjectID]
	return ok, start
}

// StartSleep marks the subject asleep since at and writes the durable
// mirror. Refuses to overwrite an ongoing session: silently restarting
// would lose the original start time.
func (t *StateTracker) StartSleep(ctx context.Context, subjectID int64, at time.Time) error {
	t.mu.Lock()
	if _, ok := t.sleeping[subjectID]; ok {
		t.mu.Unlock()
		return ErrAlreadyAsleep
	}
	t.sleeping[subjectID] = at
	t.mu.Unlock()

	if err := t.activities.SetOngoingSleep(ctx, subjectID, &at); err != nil {
		// Roll the in-memory state back so memory and mirror stay in step.
		t.mu.Lock()
		delete(t.sleeping, subjectID)
		t.mu.Unlock()
		return fmt.Errorf("persist ongoing sleep: %w", err)
	}
	return nil
}

// EndSleep closes the ongoing session: it clears the durable mirror,
// appends the completed sleep record, drops the in-memory state, and
// returns the session duration in minutes. On error the subject remains
// asleep in memory and EndSleep can be retried safely.
//
// An end time before the recorded start (clock skew, user-entered
// historical time) is clamped to a one-minute session; an end time less
// than a minute after the start is rejected so accidental double-taps do
// not record noise sessions.
func (t *StateTracker) EndSleep(ctx context.Context, subjectID int64, at time.Time) (int, error) {
	t.mu.RLock()
	start, ok := t.sleeping[subjectID]
	t.mu.RUnlock()
	if !ok {
		return 0, ErrNotAsleep
	}

	elapsed := at.Sub(start)
	if elapsed >= 0 && elapsed < time.Minute {
		return 0, ErrDurationTooShort
	}
	minutes := int(elapsed.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	rec := domain.ActivityRecord{
		ID:              uuid.NewString(),
		SubjectID:       subjectID,
		Kind:            domain.KindSleep,
		DurationMinutes: minutes,
		OccurredAt:      start,
		EndedAt:         &at,
	}
	// Clear the mirror before appending. If the append fails the subject
	// is still asleep in memory and a retry writes exactly one record; the
	// reverse order could leave the record written with the mirror stuck,
	// so a retry would duplicate the session.
	if err := t.activities.SetOngoingSleep(ctx, subjectID, nil); err != nil {
		return 0, fmt.Errorf("clear ongoing sleep: %w", err)
	}
	if err := t.activities.Append(ctx, rec); err != nil {
		return 0, fmt.Errorf("append sleep record: %w", err)
	}

	t.mu.Lock()
	delete(t.sleeping, subjectID)
	t.mu.Unlock()
	return minutes, nil
}

// Restore repopulates the in-memory state from a persisted ongoing sleep
// without touching storage. Used by the recovery bootstrap.
func (t *StateTracker) Restore(subjectID int64, startedAt time.Time) {
	t.mu.Lock()
	t.sleeping[subjectID] = startedAt
	t.mu.Unlock()
}
