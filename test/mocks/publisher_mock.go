package mocks

import (
	"context"
	"sync"

	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

// MockNotificationPublisher implements ports.NotificationPublisher for testing.
// This mock allows us to test the outbox relay without a real RabbitMQ connection.
type MockNotificationPublisher struct {
	mu sync.RWMutex

	// Track published events for verification
	PublishedEvents []ports.NotificationEvent

	// Error injection for testing error scenarios
	PublishError error

	// Track number of calls
	PublishCallCount int
}

// Ensure MockNotificationPublisher implements ports.NotificationPublisher at compile time.
var _ ports.NotificationPublisher = (*MockNotificationPublisher)(nil)

// NewMockNotificationPublisher creates a new mock publisher.
func NewMockNotificationPublisher() *MockNotificationPublisher {
	return &MockNotificationPublisher{
		PublishedEvents: make([]ports.NotificationEvent, 0),
	}
}

// PublishNotification captures published events for verification.
func (m *MockNotificationPublisher) PublishNotification(ctx context.Context, evt ports.NotificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++

	if m.PublishError != nil {
		return m.PublishError
	}

	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns all events that were published.
func (m *MockNotificationPublisher) GetPublishedEvents() []ports.NotificationEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent race conditions
	events := make([]ports.NotificationEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

// GetPublishCount returns the number of times PublishNotification was called.
func (m *MockNotificationPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}

// Reset clears all tracking data.
func (m *MockNotificationPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishedEvents = make([]ports.NotificationEvent, 0)
	m.PublishError = nil
	m.PublishCallCount = 0
}
