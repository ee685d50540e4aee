package domain

import (
	"testing"
	"time"
)

func TestClockWindow_Contains(t *testing.T) {
	day := func(hour int) time.Time {
		return time.Date(2026, 3, 10, hour, 30, 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		window ClockWindow
		hour   int
		want   bool
	}{
		{name: "wrapping_inside_before_midnight", window: ClockWindow{23, 6}, hour: 23, want: true},
		{name: "wrapping_inside_after_midnight", window: ClockWindow{23, 6}, hour: 2, want: true},
		{name: "wrapping_edge_of_end", window: ClockWindow{23, 6}, hour: 6, want: false},
		{name: "wrapping_outside", window: ClockWindow{23, 6}, hour: 12, want: false},
		{name: "plain_inside", window: ClockWindow{9, 17}, hour: 9, want: true},
		{name: "plain_outside_before", window: ClockWindow{9, 17}, hour: 8, want: false},
		{name: "plain_edge_of_end", window: ClockWindow{9, 17}, hour: 17, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.Contains(day(tt.hour)); got != tt.want {
				t.Errorf("Contains(%02d:30) = %v, want %v", tt.hour, got, tt.want)
			}
		})
	}
}

func TestClockWindow_NextEnd(t *testing.T) {
	w := ClockWindow{StartHour: 23, EndHour: 6}

	// Inside the window after midnight: ends the same morning.
	at := time.Date(2026, 3, 10, 2, 15, 0, 0, time.UTC)
	end := w.NextEnd(at)
	want := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Errorf("NextEnd(02:15) = %v, want %v", end, want)
	}

	// Inside the window before midnight: ends tomorrow morning.
	at = time.Date(2026, 3, 10, 23, 45, 0, 0, time.UTC)
	end = w.NextEnd(at)
	want = time.Date(2026, 3, 11, 6, 0, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Errorf("NextEnd(23:45) = %v, want %v", end, want)
	}

	// Exactly at the end hour: the upcoming end is tomorrow's.
	at = time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	end = w.NextEnd(at)
	want = time.Date(2026, 3, 11, 6, 0, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Errorf("NextEnd(06:00) = %v, want %v", end, want)
	}
}

func TestStage_FireTime(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	early := Stage{OffsetMinutes: -30}
	if got := early.FireTime(base); !got.Equal(base.Add(-30 * time.Minute)) {
		t.Errorf("FireTime with negative offset = %v", got)
	}

	late := Stage{OffsetMinutes: 180}
	if got := late.FireTime(base); !got.Equal(base.Add(3 * time.Hour)) {
		t.Errorf("FireTime with positive offset = %v", got)
	}
}
