package services

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/metrics"
)

// DeliverFunc is invoked when a stage fires (or immediately, when every
// stage of a new arming is already in the past).
type DeliverFunc func(subjectID int64, class domain.ReminderClass, stage domain.Stage)

type armKey struct {
	subject int64
	class   domain.ReminderClass
}

type armedStage struct {
	token uuid.UUID
	jobID uuid.UUID
}

// ReminderScheduler arms relative-offset reminder stages on wall-clock
// timers. For each (subject, class) pair at most one generation of stages
// is live: arming replaces the previous generation atomically, and
// cancellation removes not-yet-fired jobs before they can run. A stage
// whose delivery has already begun cannot be retracted, so the practical
// guarantee is at-most-once per stage.
type ReminderScheduler struct {
	mu       sync.Mutex
	sched    gocron.Scheduler
	armed    map[armKey][]armedStage
	clock    clockwork.Clock
	recorder *metrics.Recorder
}

func NewReminderScheduler(recorder *metrics.Recorder) (*ReminderScheduler, error) {
	return newReminderScheduler(recorder, clockwork.NewRealClock())
}

// newReminderScheduler hands the same clock to gocron and to the
// staleness filter in Arm. With two clocks a stage could pass the filter
// and still be rejected by gocron as already in the past, silently
// dropping that rung.
func newReminderScheduler(recorder *metrics.Recorder, clock clockwork.Clock) (*ReminderScheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("create gocron scheduler: %w", err)
	}
	return &ReminderScheduler{
		sched:    s,
		armed:    make(map[armKey][]armedStage),
		clock:    clock,
		recorder: recorder,
	}, nil
}

// Start begins firing armed jobs.
func (s *ReminderScheduler) Start() {
	s.sched.Start()
}

// Shutdown drops every armed job. Reminder coverage is re-established by
// the recovery bootstrap on next start.
func (s *ReminderScheduler) Shutdown() error {
	s.mu.Lock()
	s.armed = make(map[armKey][]armedStage)
	s.mu.Unlock()
	return s.sched.Shutdown()
}

// Arm schedules the given stages relative to base for (subjectID, class),
// replacing any previously armed generation. Stages already in the past
// are skipped; if every stage is in the past the final stage's message is
// delivered immediately exactly once, so a slow restart still produces
// one reminder instead of silence.
func (s *ReminderScheduler) Arm(subjectID int64, class domain.ReminderClass, base time.Time, stages []domain.Stage, deliver DeliverFunc) {
	if len(stages) == 0 {
		return
	}
	ordered := make([]domain.Stage, len(stages))
	copy(ordered, stages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OffsetMinutes < ordered[j].OffsetMinutes
	})

	key := armKey{subject: subjectID, class: class}

	s.mu.Lock()
	s.cancelLocked(key)

	now := s.clock.Now()
	scheduled := 0
	for i, stage := range ordered {
		fireAt := stage.FireTime(base)
		if !fireAt.After(now) {
			continue
		}
		token := uuid.New()
		stage := stage
		job, err := s.sched.NewJob(
			gocron.OneTimeJob(gocron.OneTimeJobStartDateTimes(fireAt)),
			gocron.NewTask(func() { s.fire(key, token, stage, deliver) }),
			gocron.WithName(fmt.Sprintf("%s:%d:stage-%d", class, subjectID, i)),
		)
		if err != nil {
			log.Printf("scheduler: failed to arm %s stage %d for subject %d: %v", class, i, subjectID, err)
			continue
		}
		s.armed[key] = append(s.armed[key], armedStage{token: token, jobID: job.ID()})
		scheduled++
	}
	s.mu.Unlock()

	if scheduled == 0 {
		// Every offset has elapsed (typical after a slow restart): collapse
		// the ladder into one immediate delivery of the final stage.
		last := ordered[len(ordered)-1]
		s.recorder.ReminderFired(string(class))
		deliver(subjectID, class, last)
		return
	}
	s.recorder.RemindersArmed(string(class), scheduled)
}

// Cancel removes every not-yet-fired stage for (subjectID, class).
// Cancelling an empty or already-fired set is a no-op, never an error.
func (s *ReminderScheduler) Cancel(subjectID int64, class domain.ReminderClass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(armKey{subject: subjectID, class: class})
}

func (s *ReminderScheduler) cancelLocked(key armKey) {
	live := s.armed[key]
	for _, st := range live {
		if err := s.sched.RemoveJob(st.jobID); err != nil {
			log.Printf("scheduler: remove job %s: %v", st.jobID, err)
		}
	}
	delete(s.armed, key)
	s.recorder.RemindersCancelled(string(key.class), len(live))
}

// fire runs to completion once gocron invokes a stage. The stage is
// dropped from the live generation before delivery so a concurrent
// re-arm never produces a phantom second delivery.
func (s *ReminderScheduler) fire(key armKey, token uuid.UUID, stage domain.Stage, deliver DeliverFunc) {
	s.mu.Lock()
	found := false
	live := s.armed[key]
	for i, st := range live {
		if st.token == token {
			s.armed[key] = append(live[:i], live[i+1:]...)
			found = true
			break
		}
	}
	if len(s.armed[key]) == 0 {
		delete(s.armed, key)
	}
	s.mu.Unlock()

	if !found {
		// Replaced by a newer generation while this fire was queued.
		return
	}
	s.recorder.ReminderFired(string(key.class))
	deliver(key.subject, key.class, stage)
}

// ArmedTotal reports how many stages are live across all pairs.
func (s *ReminderScheduler) ArmedTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, live := range s.armed {
		total += len(live)
	}
	return total
}

// armedStages reports how many stages are live for a pair (test hook).
func (s *ReminderScheduler) armedStages(subjectID int64, class domain.ReminderClass) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed[armKey{subject: subjectID, class: class}])
}

// ScheduleOnce runs task a single time at the given instant. Used for
// quiet-hours deferrals.
func (s *ReminderScheduler) ScheduleOnce(name string, at time.Time, task func()) error {
	_, err := s.sched.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTimes(at)),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

// ScheduleCron registers a recurring job (vaccine scan, weekly digest).
func (s *ReminderScheduler) ScheduleCron(name, crontab string, task func()) error {
	_, err := s.sched.NewJob(
		gocron.CronJob(crontab, false),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}
