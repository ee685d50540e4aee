package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

// MockVaccineRepository implements ports.VaccineRepository in memory.
type MockVaccineRepository struct {
	mu sync.RWMutex

	appointments map[string]domain.VaccineAppointment

	// Call tracking for verification
	MarkRemindedCalls []string

	// Error injection for testing error scenarios
	SavePlanError      error
	DueBetweenError    error
	MarkRemindedError  error
	MarkCompletedError error
}

// Ensure MockVaccineRepository implements ports.VaccineRepository at compile time.
var _ ports.VaccineRepository = (*MockVaccineRepository)(nil)

// NewMockVaccineRepository creates a new mock repository with empty storage.
func NewMockVaccineRepository() *MockVaccineRepository {
	return &MockVaccineRepository{
		appointments: make(map[string]domain.VaccineAppointment),
	}
}

// SeedAppointment adds an appointment for test setup.
func (m *MockVaccineRepository) SeedAppointment(appt domain.VaccineAppointment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments[appt.ID] = appt
}

// Appointment returns a stored appointment by ID (for test assertions).
func (m *MockVaccineRepository) Appointment(id string) (domain.VaccineAppointment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.appointments[id]
	return a, ok
}

// Appointments returns every stored appointment.
func (m *MockVaccineRepository) Appointments() []domain.VaccineAppointment {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.VaccineAppointment, 0, len(m.appointments))
	for _, a := range m.appointments {
		out = append(out, a)
	}
	return out
}

func (m *MockVaccineRepository) SavePlan(ctx context.Context, appointments []domain.VaccineAppointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SavePlanError != nil {
		return m.SavePlanError
	}

	for _, a := range appointments {
		m.appointments[a.ID] = a
	}
	return nil
}

func (m *MockVaccineRepository) DueBetween(ctx context.Context, from, to time.Time) ([]domain.VaccineAppointment, error) {
	if m.DueBetweenError != nil {
		return nil, m.DueBetweenError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.VaccineAppointment
	for _, a := range m.appointments {
		if a.Completed || a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *MockVaccineRepository) MarkReminded(ctx context.Context, appointmentID string, tier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.MarkRemindedCalls = append(m.MarkRemindedCalls, appointmentID+":"+tier)

	if m.MarkRemindedError != nil {
		return m.MarkRemindedError
	}

	a, ok := m.appointments[appointmentID]
	if !ok {
		return nil
	}
	switch tier {
	case "7d":
		a.Reminded7d = true
	case "3d":
		a.Reminded3d = true
	case "day":
		a.RemindedDay = true
	}
	m.appointments[appointmentID] = a
	return nil
}

func (m *MockVaccineRepository) MarkCompleted(ctx context.Context, appointmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.MarkCompletedError != nil {
		return m.MarkCompletedError
	}

	a, ok := m.appointments[appointmentID]
	if !ok {
		return nil
	}
	a.Completed = true
	m.appointments[appointmentID] = a
	return nil
}

// Reset clears all stored data and call tracking.
func (m *MockVaccineRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.appointments = make(map[string]domain.VaccineAppointment)
	m.MarkRemindedCalls = nil
	m.SavePlanError = nil
	m.DueBetweenError = nil
	m.MarkRemindedError = nil
	m.MarkCompletedError = nil
}
