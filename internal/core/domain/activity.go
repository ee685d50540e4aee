package domain

import "time"

type ActivityKind string

const (
	KindFeeding    ActivityKind = "FEEDING"
	KindDiaper     ActivityKind = "DIAPER"
	KindSleep      ActivityKind = "SLEEP"
	KindSupplement ActivityKind = "SUPPLEMENT"
)

// ActivityRecord is an immutable logged fact about the tracked subject.
// Sleep records are written complete (with EndedAt and DurationMinutes)
// when the subject wakes; all other kinds are point-in-time events.
type ActivityRecord struct {
	ID              string       `json:"id"`
	SubjectID       int64        `json:"subject_id"`
	Kind            ActivityKind `json:"kind"`
	AmountML        int          `json:"amount_ml,omitempty"`
	DurationMinutes int          `json:"duration_minutes,omitempty"`
	Note            string       `json:"note,omitempty"`
	OccurredAt      time.Time    `json:"occurred_at"`
	EndedAt         *time.Time   `json:"ended_at,omitempty"`
}

// OngoingSleep mirrors the durable "asleep since" field for a subject.
// At most one exists per subject; its presence is the sole source of truth
// for "the subject is asleep right now".
type OngoingSleep struct {
	SubjectID int64     `json:"subject_id"`
	StartedAt time.Time `json:"started_at"`
}

// SubjectProfile holds the per-subject settings the engine reads:
// birth date for age-dependent reminder windows and the quiet-hours opt-in.
type SubjectProfile struct {
	Identity          int64      `json:"identity"`
	DisplayName       string     `json:"display_name,omitempty"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	QuietHoursEnabled bool       `json:"quiet_hours_enabled"`
}

// AgeInMonths returns the subject's age in whole months at the given
// instant, or false if no birth date is recorded.
func (p SubjectProfile) AgeInMonths(at time.Time) (int, bool) {
	if p.BirthDate == nil {
		return 0, false
	}
	b := *p.BirthDate
	months := (at.Year()-b.Year())*12 + int(at.Month()) - int(b.Month())
	if at.Day() < b.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	return months, true
}
