package mocks

import (
	"context"
	"sync"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

// MockGroupRepository implements ports.GroupRepository in memory.
type MockGroupRepository struct {
	mu sync.RWMutex

	// In-memory storage for testing
	groups   map[string]domain.FamilyGroup
	profiles map[int64]domain.SubjectProfile

	// Call tracking for verification
	CreateGroupCalls []domain.FamilyGroup
	SaveGroupCalls   []domain.FamilyGroup

	// Error injection for testing error scenarios
	CreateGroupError   error
	SaveGroupError     error
	FindByMemberError  error
	FindByCodeError    error
	CodeExistsError    error
	GetProfileError    error
	UpsertProfileError error
	ListProfilesError  error
}

// Ensure MockGroupRepository implements ports.GroupRepository at compile time.
var _ ports.GroupRepository = (*MockGroupRepository)(nil)

// NewMockGroupRepository creates a new mock repository with empty storage.
func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups:   make(map[string]domain.FamilyGroup),
		profiles: make(map[int64]domain.SubjectProfile),
	}
}

// SeedGroup adds a group for test setup.
func (m *MockGroupRepository) SeedGroup(group domain.FamilyGroup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group.ID] = group
}

// SeedProfile adds a subject profile for test setup.
func (m *MockGroupRepository) SeedProfile(profile domain.SubjectProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.Identity] = profile
}

// Group returns a stored group by ID (for test assertions).
func (m *MockGroupRepository) Group(id string) (domain.FamilyGroup, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	return g, ok
}

func (m *MockGroupRepository) CreateGroup(ctx context.Context, group domain.FamilyGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateGroupCalls = append(m.CreateGroupCalls, group)

	if m.CreateGroupError != nil {
		return m.CreateGroupError
	}

	m.groups[group.ID] = group
	return nil
}

func (m *MockGroupRepository) SaveGroup(ctx context.Context, group domain.FamilyGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveGroupCalls = append(m.SaveGroupCalls, group)

	if m.SaveGroupError != nil {
		return m.SaveGroupError
	}

	m.groups[group.ID] = group
	return nil
}

func (m *MockGroupRepository) FindByMember(ctx context.Context, identity int64) (*domain.FamilyGroup, error) {
	if m.FindByMemberError != nil {
		return nil, m.FindByMemberError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, g := range m.groups {
		if !g.Active {
			continue
		}
		if _, ok := g.FindMember(identity); ok {
			group := g
			return &group, nil
		}
	}
	return nil, nil
}

func (m *MockGroupRepository) FindByCode(ctx context.Context, code string) (*domain.FamilyGroup, error) {
	if m.FindByCodeError != nil {
		return nil, m.FindByCodeError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, g := range m.groups {
		if g.Active && g.Code == code {
			group := g
			return &group, nil
		}
	}
	return nil, nil
}

func (m *MockGroupRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	if m.CodeExistsError != nil {
		return false, m.CodeExistsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, g := range m.groups {
		if g.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockGroupRepository) GetProfile(ctx context.Context, identity int64) (*domain.SubjectProfile, error) {
	if m.GetProfileError != nil {
		return nil, m.GetProfileError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[identity]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MockGroupRepository) UpsertProfile(ctx context.Context, profile domain.SubjectProfile) error {
	if m.UpsertProfileError != nil {
		return m.UpsertProfileError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[profile.Identity] = profile
	return nil
}

func (m *MockGroupRepository) ListProfiles(ctx context.Context) ([]domain.SubjectProfile, error) {
	if m.ListProfilesError != nil {
		return nil, m.ListProfilesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.SubjectProfile
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}

// Reset clears all stored data and call tracking.
func (m *MockGroupRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.groups = make(map[string]domain.FamilyGroup)
	m.profiles = make(map[int64]domain.SubjectProfile)
	m.CreateGroupCalls = nil
	m.SaveGroupCalls = nil
	m.CreateGroupError = nil
	m.SaveGroupError = nil
	m.FindByMemberError = nil
	m.FindByCodeError = nil
	m.CodeExistsError = nil
	m.GetProfileError = nil
	m.UpsertProfileError = nil
	m.ListProfilesError = nil
}
