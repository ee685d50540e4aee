// Package mocks provides mock implementations of port interfaces for testing.
// In hexagonal architecture, ports define the contracts between the core domain
// and external adapters. Mocks implement these interfaces to enable isolated testing.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

// MockActivityRepository implements ports.ActivityRepository in memory.
// Records are kept in append order; queries sort on demand so tests can
// seed records in any order.
type MockActivityRepository struct {
	mu sync.RWMutex

	// In-memory storage for testing
	records []domain.ActivityRecord
	ongoing map[int64]time.Time

	// Call tracking for verification
	AppendCalls          []domain.ActivityRecord
	SetOngoingSleepCalls []int64

	// Error injection for testing error scenarios
	AppendError          error
	QueryError           error
	LatestError          error
	SetOngoingSleepError error
	ListOngoingError     error
	LatestPerSubjectErr  error
}

// Ensure MockActivityRepository implements ports.ActivityRepository at compile time.
var _ ports.ActivityRepository = (*MockActivityRepository)(nil)

// NewMockActivityRepository creates a new mock repository with empty storage.
func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{
		ongoing: make(map[int64]time.Time),
	}
}

// SeedRecord adds a record for test setup without touching call tracking.
func (m *MockActivityRepository) SeedRecord(rec domain.ActivityRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
}

// SeedOngoingSleep marks a subject asleep for test setup.
func (m *MockActivityRepository) SeedOngoingSleep(subjectID int64, startedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ongoing[subjectID] = startedAt
}

// Records returns a copy of everything appended or seeded so far.
func (m *MockActivityRepository) Records() []domain.ActivityRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ActivityRecord, len(m.records))
	copy(out, m.records)
	return out
}

func (m *MockActivityRepository) Append(ctx context.Context, rec domain.ActivityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls = append(m.AppendCalls, rec)

	if m.AppendError != nil {
		return m.AppendError
	}

	m.records = append(m.records, rec)
	return nil
}

func (m *MockActivityRepository) Query(ctx context.Context, subjectIDs []int64, kind domain.ActivityKind, from, to time.Time) ([]domain.ActivityRecord, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	subjects := make(map[int64]bool, len(subjectIDs))
	for _, id := range subjectIDs {
		subjects[id] = true
	}

	var out []domain.ActivityRecord
	for _, rec := range m.records {
		if !subjects[rec.SubjectID] || rec.Kind != kind {
			continue
		}
		if rec.OccurredAt.Before(from) || rec.OccurredAt.After(to) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, nil
}

func (m *MockActivityRepository) Latest(ctx context.Context, subjectID int64, kind domain.ActivityKind) (*domain.ActivityRecord, error) {
	if m.LatestError != nil {
		return nil, m.LatestError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *domain.ActivityRecord
	for i := range m.records {
		rec := m.records[i]
		if rec.SubjectID != subjectID || rec.Kind != kind {
			continue
		}
		if latest == nil || rec.OccurredAt.After(latest.OccurredAt) {
			latest = &rec
		}
	}
	return latest, nil
}

func (m *MockActivityRepository) GetOngoingSleep(ctx context.Context, subjectID int64) (*domain.OngoingSleep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start, ok := m.ongoing[subjectID]
	if !ok {
		return nil, nil
	}
	return &domain.OngoingSleep{SubjectID: subjectID, StartedAt: start}, nil
}

func (m *MockActivityRepository) SetOngoingSleep(ctx context.Context, subjectID int64, startedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetOngoingSleepCalls = append(m.SetOngoingSleepCalls, subjectID)

	if m.SetOngoingSleepError != nil {
		return m.SetOngoingSleepError
	}

	if startedAt == nil {
		delete(m.ongoing, subjectID)
	} else {
		m.ongoing[subjectID] = *startedAt
	}
	return nil
}

func (m *MockActivityRepository) ListOngoingSleeps(ctx context.Context) ([]domain.OngoingSleep, error) {
	if m.ListOngoingError != nil {
		return nil, m.ListOngoingError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.OngoingSleep
	for id, start := range m.ongoing {
		out = append(out, domain.OngoingSleep{SubjectID: id, StartedAt: start})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectID < out[j].SubjectID })
	return out, nil
}

func (m *MockActivityRepository) LatestPerSubject(ctx context.Context, kind domain.ActivityKind, since time.Time) ([]domain.ActivityRecord, error) {
	if m.LatestPerSubjectErr != nil {
		return nil, m.LatestPerSubjectErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	anchor := func(rec domain.ActivityRecord) time.Time {
		if rec.EndedAt != nil {
			return *rec.EndedAt
		}
		return rec.OccurredAt
	}

	latest := make(map[int64]domain.ActivityRecord)
	for _, rec := range m.records {
		if rec.Kind != kind || anchor(rec).Before(since) {
			continue
		}
		if prev, ok := latest[rec.SubjectID]; !ok || anchor(rec).After(anchor(prev)) {
			latest[rec.SubjectID] = rec
		}
	}

	var out []domain.ActivityRecord
	for _, rec := range latest {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectID < out[j].SubjectID })
	return out, nil
}

// Reset clears all stored data and call tracking.
// Use this between tests to ensure isolation.
func (m *MockActivityRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = nil
	m.ongoing = make(map[int64]time.Time)
	m.AppendCalls = nil
	m.SetOngoingSleepCalls = nil
	m.AppendError = nil
	m.QueryError = nil
	m.LatestError = nil
	m.SetOngoingSleepError = nil
	m.ListOngoingError = nil
	m.LatestPerSubjectErr = nil
}
