package services

import (
	"testing"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
)

func TestFeedingStages(t *testing.T) {
	stages := feedingStages(2.5)
	if len(stages) != 5 {
		t.Fatalf("stages = %d, want 5", len(stages))
	}

	// Ladder around the 150-minute due point.
	wantOffsets := []int{120, 140, 150, 165, 180}
	for i, want := range wantOffsets {
		if stages[i].OffsetMinutes != want {
			t.Errorf("stage %d offset = %d, want %d", i, stages[i].OffsetMinutes, want)
		}
	}

	// Heads-up stages are quiet-gateable, due and overdue are not.
	for i, s := range stages {
		want := domain.ImportanceNormal
		if i < 2 {
			want = domain.ImportanceLow
		}
		if s.Importance != want {
			t.Errorf("stage %d importance = %s, want %s", i, s.Importance, want)
		}
	}

	// Nonsense interval falls back to the newborn default.
	fallback := feedingStages(0)
	if fallback[2].OffsetMinutes != 150 {
		t.Errorf("fallback due offset = %d, want 150", fallback[2].OffsetMinutes)
	}
}

func TestDiaperStages(t *testing.T) {
	// Deterministic pick pinned to the lower bound.
	stages := diaperStages(func(min, max int) int {
		if min != diaperMinMinutes || max != diaperMaxMinutes {
			t.Errorf("pick range = [%d, %d], want [%d, %d]", min, max, diaperMinMinutes, diaperMaxMinutes)
		}
		return min
	})
	if len(stages) != 2 {
		t.Fatalf("stages = %d, want 2", len(stages))
	}
	if stages[0].OffsetMinutes != 180 || stages[1].OffsetMinutes != 210 {
		t.Errorf("offsets = %d, %d", stages[0].OffsetMinutes, stages[1].OffsetMinutes)
	}

	// The default pick stays inside the band.
	for i := 0; i < 50; i++ {
		due := randBetween(diaperMinMinutes, diaperMaxMinutes)
		if due < diaperMinMinutes || due > diaperMaxMinutes {
			t.Fatalf("randBetween out of band: %d", due)
		}
	}
}

func TestAwakeAndNapStages(t *testing.T) {
	th := domain.ResolveThresholds(4) // 3-6 month bucket

	awake := awakeStages(th)
	if len(awake) != 2 {
		t.Fatalf("awake stages = %d, want 2", len(awake))
	}
	if awake[0].OffsetMinutes != th.AwakeMaxMinutes {
		t.Errorf("awake due offset = %d, want %d", awake[0].OffsetMinutes, th.AwakeMaxMinutes)
	}
	if awake[1].OffsetMinutes != th.AwakeMaxMinutes+awakeOverdueMinutes {
		t.Errorf("awake overdue offset = %d", awake[1].OffsetMinutes)
	}

	nap := napStages(th)
	if nap[0].OffsetMinutes != th.NapMaxMinutes {
		t.Errorf("nap due offset = %d, want %d", nap[0].OffsetMinutes, th.NapMaxMinutes)
	}
	if nap[1].OffsetMinutes != th.NapMaxMinutes+napOverdueMinutes {
		t.Errorf("nap overdue offset = %d", nap[1].OffsetMinutes)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{45, "45m"},
		{60, "1h"},
		{95, "1h35m"},
		{150, "2h30m"},
		{180, "3h"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.minutes); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
