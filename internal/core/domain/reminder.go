package domain

import "time"

// ReminderClass identifies one of the independent reminder ladders. For a
// given (subject, class) pair at most one set of armed stages is live.
type ReminderClass string

const (
	ClassFeedingDue   ReminderClass = "FEEDING_DUE"
	ClassDiaperDue    ReminderClass = "DIAPER_DUE"
	ClassAwakeTooLong ReminderClass = "AWAKE_TOO_LONG"
	ClassNapTooLong   ReminderClass = "NAP_TOO_LONG"
)

type Importance string

const (
	ImportanceLow    Importance = "LOW"
	ImportanceNormal Importance = "NORMAL"
	// ImportanceHigh is reserved for time-critical items (day-of
	// immunization) that must never be quiet-gated.
	ImportanceHigh Importance = "HIGH"
)

// Stage is one rung of a reminder ladder: fire OffsetMinutes after the
// base event, delivering Message at the given importance.
type Stage struct {
	OffsetMinutes int
	Message       string
	Importance    Importance
}

// FireTime returns the absolute instant this stage fires for a base time.
func (s Stage) FireTime(base time.Time) time.Time {
	return base.Add(time.Duration(s.OffsetMinutes) * time.Minute)
}

// ClockWindow is a daily local-time window, possibly wrapping midnight
// (e.g. 23..6 covers 23:00-05:59).
type ClockWindow struct {
	StartHour int
	EndHour   int
}

// Contains reports whether the given instant's local hour falls inside
// the window.
func (w ClockWindow) Contains(t time.Time) bool {
	h := t.Hour()
	if w.StartHour > w.EndHour {
		return h >= w.StartHour || h < w.EndHour
	}
	return h >= w.StartHour && h < w.EndHour
}

// NextEnd returns the next instant at which the window closes, in t's
// location. If t is outside the window the result is still the upcoming
// window end.
func (w ClockWindow) NextEnd(t time.Time) time.Time {
	end := time.Date(t.Year(), t.Month(), t.Day(), w.EndHour, 0, 0, 0, t.Location())
	if !end.After(t) {
		end = end.AddDate(0, 0, 1)
	}
	return end
}
