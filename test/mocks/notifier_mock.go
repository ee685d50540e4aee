package mocks

import (
	"context"
	"sync"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

// SentMessage captures one Notifier.Send call for verification.
type SentMessage struct {
	Identity   int64
	Message    string
	Importance domain.Importance
}

// MockNotifier implements ports.Notifier by recording every send.
type MockNotifier struct {
	mu sync.RWMutex

	Sent []SentMessage

	// Error injection for testing error scenarios
	SendError error
}

// Ensure MockNotifier implements ports.Notifier at compile time.
var _ ports.Notifier = (*MockNotifier)(nil)

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Send(ctx context.Context, identity int64, message string, importance domain.Importance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendError != nil {
		return m.SendError
	}

	m.Sent = append(m.Sent, SentMessage{Identity: identity, Message: message, Importance: importance})
	return nil
}

// SentTo returns every message delivered to one identity.
func (m *MockNotifier) SentTo(identity int64) []SentMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []SentMessage
	for _, s := range m.Sent {
		if s.Identity == identity {
			out = append(out, s)
		}
	}
	return out
}

// SentCount returns the total number of delivered messages.
func (m *MockNotifier) SentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Sent)
}

// Reset clears all tracking data.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sent = nil
	m.SendError = nil
}

// MockQuietPrefStore implements ports.QuietPrefStore in memory.
type MockQuietPrefStore struct {
	mu sync.RWMutex

	enabled map[int64]bool

	// Error injection for testing error scenarios
	GetError error
	SetError error
}

// Ensure MockQuietPrefStore implements ports.QuietPrefStore at compile time.
var _ ports.QuietPrefStore = (*MockQuietPrefStore)(nil)

// NewMockQuietPrefStore creates a new mock preference store.
func NewMockQuietPrefStore() *MockQuietPrefStore {
	return &MockQuietPrefStore{
		enabled: make(map[int64]bool),
	}
}

// SeedEnabled opts an identity into quiet hours for test setup.
func (m *MockQuietPrefStore) SeedEnabled(identity int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled[identity] = true
}

func (m *MockQuietPrefStore) QuietHoursEnabled(ctx context.Context, identity int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return false, m.GetError
	}
	return m.enabled[identity], nil
}

func (m *MockQuietPrefStore) SetQuietHoursEnabled(ctx context.Context, identity int64, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetError != nil {
		return m.SetError
	}
	m.enabled[identity] = enabled
	return nil
}

// Reset clears all stored data.
func (m *MockQuietPrefStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled = make(map[int64]bool)
	m.GetError = nil
	m.SetError = nil
}
