package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
	"github.com/NgocChung1998/BabyCare/internal/metrics"
)

const deferredPrefix = "Held during quiet hours: "

type onceScheduler interface {
	ScheduleOnce(name string, at time.Time, task func()) error
}

// NotificationGate decides whether a message is delivered immediately or
// held until the end of quiet hours. Only low-importance messages to
// identities that opted in are deferred; normal and high always pass,
// high being reserved for time-critical items that must never be
// suppressed.
type NotificationGate struct {
	prefs     ports.QuietPrefStore
	notifier  ports.Notifier
	scheduler onceScheduler
	quiet     domain.ClockWindow
	loc       *time.Location
	now       func() time.Time
	recorder  *metrics.Recorder
}

func NewNotificationGate(
	prefs ports.QuietPrefStore,
	notifier ports.Notifier,
	scheduler onceScheduler,
	quiet domain.ClockWindow,
	loc *time.Location,
	recorder *metrics.Recorder,
) *NotificationGate {
	return &NotificationGate{
		prefs:     prefs,
		notifier:  notifier,
		scheduler: scheduler,
		quiet:     quiet,
		loc:       loc,
		now:       time.Now,
		recorder:  recorder,
	}
}

// ShouldDeferNow is true only for a low-importance message to an
// opted-in identity while the local time is inside the quiet window.
func (g *NotificationGate) ShouldDeferNow(ctx context.Context, identity int64, importance domain.Importance) bool {
	if importance != domain.ImportanceLow {
		return false
	}
	enabled, err := g.prefs.QuietHoursEnabled(ctx, identity)
	if err != nil {
		log.Printf("gate: quiet-hours lookup for %d failed, delivering immediately: %v", identity, err)
		return false
	}
	if !enabled {
		return false
	}
	return g.quiet.Contains(g.now().In(g.loc))
}

// Deliver sends the message now or schedules it once for the end of the
// quiet window with the original content intact. Notifier failures are
// logged and never retried; a failed delivery does not affect later
// stages or other subjects.
func (g *NotificationGate) Deliver(ctx context.Context, identity int64, message string, importance domain.Importance) {
	if g.ShouldDeferNow(ctx, identity, importance) {
		at := g.quiet.NextEnd(g.now().In(g.loc))
		held := deferredPrefix + message
		err := g.scheduler.ScheduleOnce(fmt.Sprintf("deferred:%d:%d", identity, at.Unix()), at, func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := g.notifier.Send(sendCtx, identity, held, importance); err != nil {
				log.Printf("gate: deferred send to %d failed: %v", identity, err)
			}
		})
		if err != nil {
			log.Printf("gate: could not defer message for %d, delivering immediately: %v", identity, err)
		} else {
			g.recorder.DeliveryDeferred()
			return
		}
	}

	g.recorder.NotificationSent(string(importance))
	if err := g.notifier.Send(ctx, identity, message, importance); err != nil {
		log.Printf("gate: send to %d failed: %v", identity, err)
	}
}
