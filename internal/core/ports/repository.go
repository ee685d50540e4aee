package ports

import (
	"context"
	"time"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
)

// ActivityRepository is the durable, queryable activity log plus the
// per-subject ongoing-sleep mirror.
type ActivityRepository interface {
	Append(ctx context.Context, rec domain.ActivityRecord) error
	// Query returns records of one kind for a set of subject identities
	// (group consolidation requires reading several identities at once),
	// newest first, within [from, to].
	Query(ctx context.Context, subjectIDs []int64, kind domain.ActivityKind, from, to time.Time) ([]domain.ActivityRecord, error)
	// Latest returns the most recent record of a kind for one subject,
	// or nil when none exists.
	Latest(ctx context.Context, subjectID int64, kind domain.ActivityKind) (*domain.ActivityRecord, error)

	GetOngoingSleep(ctx context.Context, subjectID int64) (*domain.OngoingSleep, error)
	SetOngoingSleep(ctx context.Context, subjectID int64, startedAt *time.Time) error

	// Recovery scans: every subject with an ongoing sleep still set, and
	// the most recent record per subject of a kind occurring at or after
	// the cutoff.
	ListOngoingSleeps(ctx context.Context) ([]domain.OngoingSleep, error)
	LatestPerSubject(ctx context.Context, kind domain.ActivityKind, since time.Time) ([]domain.ActivityRecord, error)
}

// GroupRepository stores family groups and subject profiles. Groups are
// retired, never deleted.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group domain.FamilyGroup) error
	SaveGroup(ctx context.Context, group domain.FamilyGroup) error
	// FindByMember returns the active group containing the identity, or
	// nil when the identity belongs to no active group.
	FindByMember(ctx context.Context, identity int64) (*domain.FamilyGroup, error)
	// FindByCode returns the active group with the given join code, or
	// nil when no such group exists.
	FindByCode(ctx context.Context, code string) (*domain.FamilyGroup, error)
	CodeExists(ctx context.Context, code string) (bool, error)

	GetProfile(ctx context.Context, identity int64) (*domain.SubjectProfile, error)
	UpsertProfile(ctx context.Context, profile domain.SubjectProfile) error
	// ListProfiles returns every known subject profile (digest jobs walk
	// all subjects).
	ListProfiles(ctx context.Context) ([]domain.SubjectProfile, error)
}

// VaccineRepository stores the dated immunization plan per subject.
type VaccineRepository interface {
	SavePlan(ctx context.Context, appointments []domain.VaccineAppointment) error
	// DueBetween returns incomplete appointments dated within [from, to]
	// across all subjects.
	DueBetween(ctx context.Context, from, to time.Time) ([]domain.VaccineAppointment, error)
	MarkReminded(ctx context.Context, appointmentID string, tier string) error
	MarkCompleted(ctx context.Context, appointmentID string) error
}
