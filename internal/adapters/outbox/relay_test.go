package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
	"github.com/NgocChung1998/BabyCare/test/mocks"
)

func TestMockPublisher_CaptureAndErrorInjection(t *testing.T) {
	publisher := mocks.NewMockNotificationPublisher()
	ctx := context.Background()

	evt := ports.NotificationEvent{
		Identity:   42,
		Message:    "Next feeding is due in about 10 minutes.",
		Importance: domain.ImportanceLow,
	}
	if err := publisher.PublishNotification(ctx, evt); err != nil {
		t.Fatalf("PublishNotification: %v", err)
	}

	events := publisher.GetPublishedEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Identity != 42 || events[0].Importance != domain.ImportanceLow {
		t.Errorf("captured event = %+v", events[0])
	}

	publisher.PublishError = errors.New("channel closed")
	if err := publisher.PublishNotification(ctx, evt); err == nil {
		t.Error("expected injected error")
	}
	if got := publisher.GetPublishCount(); got != 2 {
		t.Errorf("publish calls = %d, want 2 (failures still count)", got)
	}
	if got := len(publisher.GetPublishedEvents()); got != 1 {
		t.Errorf("failed publish was captured: %d events", got)
	}
}

func TestRelay_HealthChecks(t *testing.T) {
	relay := NewRelay(nil, "", mocks.NewMockNotificationPublisher())

	if !relay.IsHealthy() {
		t.Error("fresh relay reports unhealthy")
	}
	if !relay.IsReady() {
		t.Error("fresh relay reports not ready")
	}

	// No event processed within the stale threshold: not ready, but the
	// process itself is still alive.
	relay.lastProcessed = time.Now().Add(-healthCheckStaleThreshold - time.Minute)
	if relay.IsReady() {
		t.Error("stale relay reports ready")
	}
	if !relay.IsHealthy() {
		t.Error("staleness flipped liveness")
	}

	relay.isHealthy = false
	if relay.IsHealthy() || relay.IsReady() {
		t.Error("unhealthy relay reports healthy or ready")
	}
}

func TestRelay_StartRequiresPublisher(t *testing.T) {
	relay := NewRelay(nil, "postgres://localhost/none", nil)

	if err := relay.Start(context.Background()); err == nil {
		t.Error("expected Start to refuse running without a publisher")
	}
}
