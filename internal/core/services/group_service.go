package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

// Join codes skip O/0/I/1 so caregivers can read them aloud without
// ambiguity.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLength = 6

const inviteTokenTTL = 48 * time.Hour

// GroupService lets multiple caregiver identities operate on one
// consolidated subject record. Activity data is stored under the group's
// primary identity; every member resolves through it for reads and
// writes.
type GroupService struct {
	repo      ports.GroupRepository
	gate      *NotificationGate
	inviteKey []byte
	now       func() time.Time
}

var _ ports.AgeProvider = (*GroupService)(nil)

func NewGroupService(repo ports.GroupRepository, gate *NotificationGate, inviteKey []byte) *GroupService {
	return &GroupService{
		repo:      repo,
		gate:      gate,
		inviteKey: inviteKey,
		now:       time.Now,
	}
}

// CreateGroup opens a new family group owned by identity. The creator's
// identity becomes the primary identity under which all activity data is
// consolidated.
func (s *GroupService) CreateGroup(ctx context.Context, identity int64, displayName, groupName string) (*domain.FamilyGroup, error) {
	existing, err := s.repo.FindByMember(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("lookup existing group: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyInGroup
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	group := domain.FamilyGroup{
		ID:              uuid.NewString(),
		Code:            code,
		Name:            groupName,
		PrimaryIdentity: identity,
		Active:          true,
		Members: []domain.GroupMember{
			{Identity: identity, DisplayName: displayName, Role: domain.RoleOwner, JoinedAt: now},
		},
		CreatedAt: now,
	}
	if err := s.repo.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return &group, nil
}

// Join adds identity to the active group with the given code. A caregiver
// must leave their current group before joining elsewhere.
func (s *GroupService) Join(ctx context.Context, code string, identity int64, displayName string) (*domain.FamilyGroup, error) {
	existing, err := s.repo.FindByMember(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("lookup existing group: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyInGroup
	}

	group, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("lookup group code: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	group.Members = append(group.Members, domain.GroupMember{
		Identity:    identity,
		DisplayName: displayName,
		Role:        domain.RoleMember,
		JoinedAt:    s.now(),
	})
	if err := s.repo.SaveGroup(ctx, *group); err != nil {
		return nil, fmt.Errorf("save group: %w", err)
	}

	for _, other := range group.OtherIdentities(identity) {
		s.gate.Deliver(ctx, other, fmt.Sprintf("%s joined %q.", displayName, group.Name), domain.ImportanceNormal)
	}
	return group, nil
}

// Leave removes identity from its group. When the owner leaves and other
// members remain, ownership and the primary identity transfer to the
// earliest-joined remaining member; when the last member leaves the
// group is retired rather than deleted, preserving historical records.
func (s *GroupService) Leave(ctx context.Context, identity int64) error {
	group, err := s.repo.FindByMember(ctx, identity)
	if err != nil {
		return fmt.Errorf("lookup group: %w", err)
	}
	if group == nil {
		return ErrGroupNotFound
	}

	leaving, _ := group.FindMember(identity)

	remaining := make([]domain.GroupMember, 0, len(group.Members)-1)
	for _, m := range group.Members {
		if m.Identity != identity {
			remaining = append(remaining, m)
		}
	}
	group.Members = remaining

	if len(remaining) == 0 {
		group.Active = false
	} else if leaving.Role == domain.RoleOwner {
		next := 0
		for i, m := range remaining {
			if m.JoinedAt.Before(remaining[next].JoinedAt) {
				next = i
			}
		}
		remaining[next].Role = domain.RoleOwner
		group.PrimaryIdentity = remaining[next].Identity
	}

	if err := s.repo.SaveGroup(ctx, *group); err != nil {
		return fmt.Errorf("save group: %w", err)
	}

	name := leaving.DisplayName
	if name == "" {
		name = "A caregiver"
	}
	for _, other := range group.MemberIdentities() {
		s.gate.Deliver(ctx, other, fmt.Sprintf("%s left %q.", name, group.Name), domain.ImportanceNormal)
	}
	return nil
}

// ResolveGroup returns the active group containing identity, or nil.
func (s *GroupService) ResolveGroup(ctx context.Context, identity int64) (*domain.FamilyGroup, error) {
	return s.repo.FindByMember(ctx, identity)
}

// AllMembers returns every identity sharing the subject record,
// including identity itself. A groupless caregiver is their own
// one-member set.
func (s *GroupService) AllMembers(ctx context.Context, identity int64) ([]int64, error) {
	group, err := s.repo.FindByMember(ctx, identity)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return []int64{identity}, nil
	}
	return group.MemberIdentities(), nil
}

// PrimaryIdentity returns the identity under which new records are
// written so data is consolidated rather than fragmented per caregiver.
func (s *GroupService) PrimaryIdentity(ctx context.Context, identity int64) (int64, error) {
	group, err := s.repo.FindByMember(ctx, identity)
	if err != nil {
		return 0, err
	}
	if group == nil {
		return identity, nil
	}
	return group.PrimaryIdentity, nil
}

// Rename changes the group's display name.
func (s *GroupService) Rename(ctx context.Context, identity int64, name string) error {
	group, err := s.repo.FindByMember(ctx, identity)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}
	group.Name = name
	return s.repo.SaveGroup(ctx, *group)
}

// FanOut sends a short summary of a change to every member except the
// actor, prefixed with the actor's display name.
func (s *GroupService) FanOut(ctx context.Context, actor int64, summary string) {
	group, err := s.repo.FindByMember(ctx, actor)
	if err != nil {
		log.Printf("groups: fan-out lookup for %d failed: %v", actor, err)
		return
	}
	if group == nil {
		return
	}
	name := "A caregiver"
	if m, ok := group.FindMember(actor); ok && m.DisplayName != "" {
		name = m.DisplayName
	}
	for _, other := range group.OtherIdentities(actor) {
		s.gate.Deliver(ctx, other, fmt.Sprintf("%s: %s", name, summary), domain.ImportanceNormal)
	}
}

// AgeInMonths implements ports.AgeProvider from the primary identity's
// profile. ok=false (no birth date) disables age-dependent reminder
// classes for the subject.
func (s *GroupService) AgeInMonths(ctx context.Context, subjectID int64) (int, bool, error) {
	profile, err := s.repo.GetProfile(ctx, subjectID)
	if err != nil {
		return 0, false, err
	}
	if profile == nil {
		return 0, false, nil
	}
	months, ok := profile.AgeInMonths(s.now())
	return months, ok, nil
}

// Profiles returns every known subject profile.
func (s *GroupService) Profiles(ctx context.Context) ([]domain.SubjectProfile, error) {
	return s.repo.ListProfiles(ctx)
}

// SetBirthDate records the subject's birth date on the consolidated
// profile, enabling the awake/nap classes and the vaccine planner.
func (s *GroupService) SetBirthDate(ctx context.Context, identity int64, birth time.Time) error {
	primary, err := s.PrimaryIdentity(ctx, identity)
	if err != nil {
		return err
	}
	profile, err := s.repo.GetProfile(ctx, primary)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &domain.SubjectProfile{Identity: primary}
	}
	profile.BirthDate = &birth
	return s.repo.UpsertProfile(ctx, *profile)
}

type inviteClaims struct {
	Code string `json:"code"`
	jwt.RegisteredClaims
}

// InviteToken issues a signed share token carrying the group code, so a
// join link can be validated without exposing the raw code and expires
// on its own.
func (s *GroupService) InviteToken(ctx context.Context, identity int64) (string, error) {
	group, err := s.repo.FindByMember(ctx, identity)
	if err != nil {
		return "", err
	}
	if group == nil {
		return "", ErrGroupNotFound
	}
	now := s.now()
	claims := inviteClaims{
		Code: group.Code,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(inviteTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.inviteKey)
}

// JoinByToken validates a share token and joins the encoded group.
func (s *GroupService) JoinByToken(ctx context.Context, token string, identity int64, displayName string) (*domain.FamilyGroup, error) {
	var claims inviteClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.inviteKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrGroupNotFound
	}
	return s.Join(ctx, claims.Code, identity, displayName)
}

func (s *GroupService) generateCode(ctx context.Context) (string, error) {
	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
			if err != nil {
				return "", fmt.Errorf("generate code: %w", err)
			}
			buf[i] = codeAlphabet[n.Int64()]
		}
		code := string(buf)
		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
}
