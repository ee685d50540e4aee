package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/test/mocks"
)

func TestStateTracker_StartAndEndSleep(t *testing.T) {
	repo := mocks.NewMockActivityRepository()
	tracker := NewStateTracker(repo)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	if err := tracker.StartSleep(ctx, 42, start); err != nil {
		t.Fatalf("StartSleep: %v", err)
	}

	asleep, since := tracker.IsAsleep(42)
	if !asleep || !since.Equal(start) {
		t.Fatalf("IsAsleep = (%v, %v), want (true, %v)", asleep, since, start)
	}

	// The durable mirror must be written so a restart can recover.
	ongoing, err := repo.GetOngoingSleep(ctx, 42)
	if err != nil || ongoing == nil || !ongoing.StartedAt.Equal(start) {
		t.Fatalf("ongoing sleep mirror = %v, %v", ongoing, err)
	}

	end := start.Add(95 * time.Minute)
	minutes, err := tracker.EndSleep(ctx, 42, end)
	if err != nil {
		t.Fatalf("EndSleep: %v", err)
	}
	if minutes != 95 {
		t.Errorf("duration = %d minutes, want 95", minutes)
	}

	if asleep, _ := tracker.IsAsleep(42); asleep {
		t.Error("still asleep after EndSleep")
	}
	if ongoing, _ := repo.GetOngoingSleep(ctx, 42); ongoing != nil {
		t.Error("mirror not cleared after EndSleep")
	}

	records := repo.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 sleep record, got %d", len(records))
	}
	rec := records[0]
	if rec.Kind != domain.KindSleep || rec.DurationMinutes != 95 {
		t.Errorf("record = %+v", rec)
	}
	if !rec.OccurredAt.Equal(start) || rec.EndedAt == nil || !rec.EndedAt.Equal(end) {
		t.Errorf("record anchored wrong: occurred=%v ended=%v", rec.OccurredAt, rec.EndedAt)
	}
}

func TestStateTracker_StartSleepTwice(t *testing.T) {
	tracker := NewStateTracker(mocks.NewMockActivityRepository())
	ctx := context.Background()

	start := time.Now()
	if err := tracker.StartSleep(ctx, 1, start); err != nil {
		t.Fatalf("first StartSleep: %v", err)
	}
	if err := tracker.StartSleep(ctx, 1, start.Add(time.Minute)); !errors.Is(err, ErrAlreadyAsleep) {
		t.Errorf("second StartSleep = %v, want ErrAlreadyAsleep", err)
	}

	// The original start time is preserved.
	_, since := tracker.IsAsleep(1)
	if !since.Equal(start) {
		t.Errorf("start time overwritten: %v", since)
	}
}

func TestStateTracker_EndSleepWithoutStart(t *testing.T) {
	tracker := NewStateTracker(mocks.NewMockActivityRepository())

	_, err := tracker.EndSleep(context.Background(), 1, time.Now())
	if !errors.Is(err, ErrNotAsleep) {
		t.Errorf("EndSleep = %v, want ErrNotAsleep", err)
	}
}

func TestStateTracker_EndSleepDurations(t *testing.T) {
	start := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		end         time.Time
		wantMinutes int
		wantErr     error
	}{
		{name: "under_a_minute_rejected", end: start.Add(30 * time.Second), wantErr: ErrDurationTooShort},
		{name: "zero_elapsed_rejected", end: start, wantErr: ErrDurationTooShort},
		{name: "exactly_one_minute", end: start.Add(time.Minute), wantMinutes: 1},
		{name: "end_before_start_clamps_to_one", end: start.Add(-2 * time.Hour), wantMinutes: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockActivityRepository()
			tracker := NewStateTracker(repo)
			ctx := context.Background()

			if err := tracker.StartSleep(ctx, 7, start); err != nil {
				t.Fatalf("StartSleep: %v", err)
			}

			minutes, err := tracker.EndSleep(ctx, 7, tt.end)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("EndSleep = %v, want %v", err, tt.wantErr)
				}
				// A rejected end keeps the session open.
				if asleep, _ := tracker.IsAsleep(7); !asleep {
					t.Error("session closed despite rejection")
				}
				return
			}
			if err != nil {
				t.Fatalf("EndSleep: %v", err)
			}
			if minutes != tt.wantMinutes {
				t.Errorf("minutes = %d, want %d", minutes, tt.wantMinutes)
			}
		})
	}
}

func TestStateTracker_StartSleepMirrorFailureRollsBack(t *testing.T) {
	repo := mocks.NewMockActivityRepository()
	repo.SetOngoingSleepError = errors.New("db down")
	tracker := NewStateTracker(repo)

	err := tracker.StartSleep(context.Background(), 9, time.Now())
	if err == nil {
		t.Fatal("expected error from mirror write")
	}
	if asleep, _ := tracker.IsAsleep(9); asleep {
		t.Error("in-memory state kept despite failed mirror write")
	}
}

func TestStateTracker_Restore(t *testing.T) {
	tracker := NewStateTracker(mocks.NewMockActivityRepository())

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tracker.Restore(5, start)

	asleep, since := tracker.IsAsleep(5)
	if !asleep || !since.Equal(start) {
		t.Errorf("IsAsleep after Restore = (%v, %v)", asleep, since)
	}
}

func TestStateTracker_EndSleepAppendFailureLeavesRetryable(t *testing.T) {
	repo := mocks.NewMockActivityRepository()
	tracker := NewStateTracker(repo)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	if err := tracker.StartSleep(ctx, 11, start); err != nil {
		t.Fatalf("StartSleep: %v", err)
	}

	repo.AppendError = errors.New("db down")
	end := start.Add(40 * time.Minute)
	if _, err := tracker.EndSleep(ctx, 11, end); err == nil {
		t.Fatal("expected error from failed append")
	}

	// The session stays open so the caller can retry.
	if asleep, _ := tracker.IsAsleep(11); !asleep {
		t.Fatal("session closed despite failed append")
	}

	repo.AppendError = nil
	minutes, err := tracker.EndSleep(ctx, 11, end)
	if err != nil {
		t.Fatalf("retried EndSleep: %v", err)
	}
	if minutes != 40 {
		t.Errorf("duration = %d minutes, want 40", minutes)
	}

	// The retry writes exactly one record, not one per attempt.
	if got := len(repo.Records()); got != 1 {
		t.Errorf("expected 1 sleep record after retry, got %d", got)
	}
	if asleep, _ := tracker.IsAsleep(11); asleep {
		t.Error("still asleep after successful retry")
	}
}

func TestStateTracker_EndSleepMirrorFailureWritesNoRecord(t *testing.T) {
	repo := mocks.NewMockActivityRepository()
	tracker := NewStateTracker(repo)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	if err := tracker.StartSleep(ctx, 12, start); err != nil {
		t.Fatalf("StartSleep: %v", err)
	}

	repo.SetOngoingSleepError = errors.New("db down")
	if _, err := tracker.EndSleep(ctx, 12, start.Add(30*time.Minute)); err == nil {
		t.Fatal("expected error from failed mirror clear")
	}

	if got := len(repo.Records()); got != 0 {
		t.Errorf("record appended despite failed mirror clear: %d", got)
	}
	if asleep, _ := tracker.IsAsleep(12); !asleep {
		t.Error("session closed despite failed mirror clear")
	}
}
