package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/test/mocks"
)

func newTestGroupService(repo *mocks.MockGroupRepository, notifier *mocks.MockNotifier) *GroupService {
	gate := NewNotificationGate(mocks.NewMockQuietPrefStore(), notifier, &fakeOnceScheduler{}, domain.ClockWindow{StartHour: 23, EndHour: 6}, time.UTC, nil)
	// Pin the gate clock outside quiet hours so group notices send directly.
	gate.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return NewGroupService(repo, gate, []byte("test-invite-key"))
}

func TestGroupService_CreateGroup(t *testing.T) {
	repo := mocks.NewMockGroupRepository()
	svc := newTestGroupService(repo, mocks.NewMockNotifier())
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, 100, "Linh", "Our Family")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	if len(group.Code) != 6 {
		t.Errorf("code length = %d, want 6", len(group.Code))
	}
	for _, c := range group.Code {
		if !strings.ContainsRune(codeAlphabet, c) {
			t.Errorf("code contains ambiguous character %q", c)
		}
	}
	if group.PrimaryIdentity != 100 {
		t.Errorf("primary identity = %d, want creator", group.PrimaryIdentity)
	}
	if !group.Active {
		t.Error("new group not active")
	}
	if len(group.Members) != 1 || group.Members[0].Role != domain.RoleOwner {
		t.Errorf("members = %+v, want single owner", group.Members)
	}

	// Creating again while a member fails.
	if _, err := svc.CreateGroup(ctx, 100, "Linh", "Second"); !errors.Is(err, ErrAlreadyInGroup) {
		t.Errorf("second CreateGroup = %v, want ErrAlreadyInGroup", err)
	}
}

func TestGroupService_Join(t *testing.T) {
	repo := mocks.NewMockGroupRepository()
	notifier := mocks.NewMockNotifier()
	svc := newTestGroupService(repo, notifier)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, 100, "Linh", "Our Family")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	joined, err := svc.Join(ctx, group.Code, 200, "Minh")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if len(joined.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(joined.Members))
	}
	if joined.PrimaryIdentity != 100 {
		t.Errorf("primary changed on join: %d", joined.PrimaryIdentity)
	}

	// Existing members are told, the joiner is not notified about itself.
	if len(notifier.SentTo(100)) != 1 {
		t.Errorf("owner notifications = %d, want 1", len(notifier.SentTo(100)))
	}
	if len(notifier.SentTo(200)) != 0 {
		t.Errorf("joiner notified about own join")
	}

	if _, err := svc.Join(ctx, "NOSUCH", 300, "X"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("Join bad code = %v, want ErrGroupNotFound", err)
	}
	if _, err := svc.Join(ctx, group.Code, 200, "Minh"); !errors.Is(err, ErrAlreadyInGroup) {
		t.Errorf("Join while member = %v, want ErrAlreadyInGroup", err)
	}
}

func TestGroupService_LeaveTransfersOwnershipToEarliestJoined(t *testing.T) {
	repo := mocks.NewMockGroupRepository()
	svc := newTestGroupService(repo, mocks.NewMockNotifier())
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	group := domain.FamilyGroup{
		ID:              "g1",
		Code:            "ABCDEF",
		Name:            "Family",
		PrimaryIdentity: 100,
		Active:          true,
		Members: []domain.GroupMember{
			{Identity: 100, DisplayName: "Owner", Role: domain.RoleOwner, JoinedAt: base},
			{Identity: 300, DisplayName: "Late", Role: domain.RoleMember, JoinedAt: base.Add(48 * time.Hour)},
			{Identity: 200, DisplayName: "Early", Role: domain.RoleMember, JoinedAt: base.Add(time.Hour)},
		},
		CreatedAt: base,
	}
	repo.SeedGroup(group)

	if err := svc.Leave(ctx, 100); err != nil {
		t.Fatalf("Leave: %v", err)
	}

	saved, ok := repo.Group("g1")
	if !ok {
		t.Fatal("group vanished")
	}
	if saved.PrimaryIdentity != 200 {
		t.Errorf("primary identity = %d, want earliest-joined 200", saved.PrimaryIdentity)
	}
	newOwner, found := saved.FindMember(200)
	if !found || newOwner.Role != domain.RoleOwner {
		t.Errorf("ownership not transferred: %+v", newOwner)
	}
	if !saved.Active {
		t.Error("group retired while members remain")
	}
}

func TestGroupService_LastLeaveRetiresGroup(t *testing.T) {
	repo := mocks.NewMockGroupRepository()
	svc := newTestGroupService(repo, mocks.NewMockNotifier())
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, 100, "Linh", "Solo")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	if err := svc.Leave(ctx, 100); err != nil {
		t.Fatalf("Leave: %v", err)
	}

	saved, ok := repo.Group(group.ID)
	if !ok {
		t.Fatal("group deleted; retirement must preserve the row")
	}
	if saved.Active {
		t.Error("empty group still active")
	}
	if len(saved.Members) != 0 {
		t.Errorf("members = %d, want 0", len(saved.Members))
	}

	// The retired code no longer resolves.
	if _, err := svc.Join(ctx, group.Code, 200, "Minh"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("Join retired group = %v, want ErrGroupNotFound", err)
	}
}

func TestGroupService_ResolutionHelpers(t *testing.T) {
	repo := mocks.NewMockGroupRepository()
	svc := newTestGroupService(repo, mocks.NewMockNotifier())
	ctx := context.Background()

	repo.SeedGroup(mocks.CreateTestGroup(100, 200))

	// Any member resolves to the shared primary.
	primary, err := svc.PrimaryIdentity(ctx, 200)
	if err != nil || primary != 100 {
		t.Errorf("PrimaryIdentity(member) = %d, %v", primary, err)
	}

	// A groupless identity is its own primary and one-member set.
	primary, err = svc.PrimaryIdentity(ctx, 999)
	if err != nil || primary != 999 {
		t.Errorf("PrimaryIdentity(groupless) = %d, %v", primary, err)
	}
	members, err := svc.AllMembers(ctx, 999)
	if err != nil || len(members) != 1 || members[0] != 999 {
		t.Errorf("AllMembers(groupless) = %v, %v", members, err)
	}

	members, err = svc.AllMembers(ctx, 100)
	if err != nil || len(members) != 2 {
		t.Errorf("AllMembers(member) = %v, %v", members, err)
	}
}

func TestGroupService_FanOutExcludesActor(t *testing.T) {
	repo := mocks.NewMockGroupRepository()
	notifier := mocks.NewMockNotifier()
	svc := newTestGroupService(repo, notifier)
	ctx := context.Background()

	repo.SeedGroup(mocks.CreateTestGroup(100, 200))

	svc.FanOut(ctx, 100, "logged a feeding")

	if len(notifier.SentTo(100)) != 0 {
		t.Error("actor received its own fan-out")
	}
	other := notifier.SentTo(200)
	if len(other) != 1 {
		t.Fatalf("other member notifications = %d, want 1", len(other))
	}
	if !strings.HasPrefix(other[0].Message, "Owner: ") {
		t.Errorf("fan-out message = %q, want actor name prefix", other[0].Message)
	}
}

func TestGroupService_InviteTokenRoundTrip(t *testing.T) {
	repo := mocks.NewMockGroupRepository()
	svc := newTestGroupService(repo, mocks.NewMockNotifier())
	ctx := context.Background()

	if _, err := svc.CreateGroup(ctx, 100, "Linh", "Our Family"); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	token, err := svc.InviteToken(ctx, 100)
	if err != nil {
		t.Fatalf("InviteToken: %v", err)
	}

	joined, err := svc.JoinByToken(ctx, token, 200, "Minh")
	if err != nil {
		t.Fatalf("JoinByToken: %v", err)
	}
	if _, ok := joined.FindMember(200); !ok {
		t.Error("token join did not add member")
	}

	if _, err := svc.JoinByToken(ctx, "not-a-token", 300, "X"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("JoinByToken garbage = %v, want ErrGroupNotFound", err)
	}

	// A token from a foreign key must be rejected.
	other := NewGroupService(repo, svc.gate, []byte("different-key"))
	if _, err := other.JoinByToken(ctx, token, 300, "X"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("JoinByToken wrong key = %v, want ErrGroupNotFound", err)
	}
}

func TestGroupService_SetBirthDateConsolidatesUnderPrimary(t *testing.T) {
	repo := mocks.NewMockGroupRepository()
	svc := newTestGroupService(repo, mocks.NewMockNotifier())
	ctx := context.Background()

	repo.SeedGroup(mocks.CreateTestGroup(100, 200))

	birth := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if err := svc.SetBirthDate(ctx, 200, birth); err != nil {
		t.Fatalf("SetBirthDate: %v", err)
	}

	// Written under the primary identity, readable through AgeInMonths.
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }
	months, ok, err := svc.AgeInMonths(ctx, 100)
	if err != nil || !ok {
		t.Fatalf("AgeInMonths = ok=%v err=%v", ok, err)
	}
	if months != 2 {
		t.Errorf("months = %d, want 2", months)
	}
}
