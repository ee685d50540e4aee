package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// Recorder collects engine counters. A nil *Recorder is valid and records
// nothing, so tests can run services without a registry.
type Recorder struct {
	remindersArmed     *prom.CounterVec
	remindersFired     *prom.CounterVec
	remindersCancelled *prom.CounterVec
	deliveriesDeferred prom.Counter
	notificationsSent  *prom.CounterVec
}

// NewRecorder constructs and registers the engine metrics.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		remindersArmed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "babycare",
			Name:      "reminders_armed_total",
			Help:      "Reminder stages armed, by class",
		}, []string{"class"}),
		remindersFired: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "babycare",
			Name:      "reminders_fired_total",
			Help:      "Reminder stages fired, by class",
		}, []string{"class"}),
		remindersCancelled: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "babycare",
			Name:      "reminders_cancelled_total",
			Help:      "Reminder stages cancelled before firing, by class",
		}, []string{"class"}),
		deliveriesDeferred: prom.NewCounter(prom.CounterOpts{
			Namespace: "babycare",
			Name:      "deliveries_deferred_total",
			Help:      "Low-importance deliveries held for the end of quiet hours",
		}),
		notificationsSent: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "babycare",
			Name:      "notifications_sent_total",
			Help:      "Notifications handed to the outbox, by importance",
		}, []string{"importance"}),
	}
	reg.MustRegister(r.remindersArmed, r.remindersFired, r.remindersCancelled, r.deliveriesDeferred, r.notificationsSent)
	return r
}

func (r *Recorder) RemindersArmed(class string, n int) {
	if r == nil {
		return
	}
	r.remindersArmed.WithLabelValues(class).Add(float64(n))
}

func (r *Recorder) ReminderFired(class string) {
	if r == nil {
		return
	}
	r.remindersFired.WithLabelValues(class).Inc()
}

func (r *Recorder) RemindersCancelled(class string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.remindersCancelled.WithLabelValues(class).Add(float64(n))
}

func (r *Recorder) DeliveryDeferred() {
	if r == nil {
		return
	}
	r.deliveriesDeferred.Inc()
}

func (r *Recorder) NotificationSent(importance string) {
	if r == nil {
		return
	}
	r.notificationsSent.WithLabelValues(importance).Inc()
}
