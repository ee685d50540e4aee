package mocks

import (
	"time"

	"github.com/google/uuid"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
)

// CreateTestGroup builds a two-member family group owned by the first
// identity, with the owner as primary.
func CreateTestGroup(owner, member int64) domain.FamilyGroup {
	created := time.Now().Add(-24 * time.Hour)
	return domain.FamilyGroup{
		ID:              uuid.NewString(),
		Code:            "TESTGR",
		Name:            "Test Family",
		PrimaryIdentity: owner,
		Active:          true,
		Members: []domain.GroupMember{
			{Identity: owner, DisplayName: "Owner", Role: domain.RoleOwner, JoinedAt: created},
			{Identity: member, DisplayName: "Member", Role: domain.RoleMember, JoinedAt: created.Add(time.Hour)},
		},
		CreatedAt: created,
	}
}

// CreateTestRecord builds an activity record of the given kind.
func CreateTestRecord(subjectID int64, kind domain.ActivityKind, occurredAt time.Time) domain.ActivityRecord {
	return domain.ActivityRecord{
		ID:         uuid.NewString(),
		SubjectID:  subjectID,
		Kind:       kind,
		OccurredAt: occurredAt,
	}
}

// CreateTestAppointment builds an incomplete vaccine appointment.
func CreateTestAppointment(subjectID int64, name string, date time.Time) domain.VaccineAppointment {
	return domain.VaccineAppointment{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		Name:      name,
		Date:      date,
		Required:  true,
	}
}
