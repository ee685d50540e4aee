package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

const deliveryTimeout = 10 * time.Second

// Engine is the public surface the command layer calls. Every operation
// resolves the caller's identity to the group's primary identity first,
// writes under it, re-arms the relevant reminder class, and fans a short
// summary out to the other group members.
type Engine struct {
	activities ports.ActivityRepository
	tracker    *StateTracker
	scheduler  *ReminderScheduler
	groups     *GroupService
	gate       *NotificationGate
	ages       ports.AgeProvider
	overnight  domain.ClockWindow
	loc        *time.Location
	now        func() time.Time
	diaperPick func(min, max int) int
}

func NewEngine(
	activities ports.ActivityRepository,
	tracker *StateTracker,
	scheduler *ReminderScheduler,
	groups *GroupService,
	gate *NotificationGate,
	ages ports.AgeProvider,
	overnight domain.ClockWindow,
	loc *time.Location,
) *Engine {
	return &Engine{
		activities: activities,
		tracker:    tracker,
		scheduler:  scheduler,
		groups:     groups,
		gate:       gate,
		ages:       ages,
		overnight:  overnight,
		loc:        loc,
		now:        time.Now,
	}
}

// LogFeeding records a feeding and re-arms the feeding-due ladder from
// its time.
func (e *Engine) LogFeeding(ctx context.Context, identity int64, amountML int, at time.Time) (*domain.ActivityRecord, error) {
	primary, err := e.groups.PrimaryIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("resolve primary identity: %w", err)
	}
	rec := domain.ActivityRecord{
		ID:         uuid.NewString(),
		SubjectID:  primary,
		Kind:       domain.KindFeeding,
		AmountML:   amountML,
		OccurredAt: at,
	}
	if err := e.activities.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("append feeding: %w", err)
	}
	e.ArmFeeding(ctx, primary, at)
	e.groups.FanOut(ctx, identity, fmt.Sprintf("logged a %dml feeding at %s", amountML, at.In(e.loc).Format("15:04")))
	return &rec, nil
}

// LogDiaperChange records a diaper change and re-arms the diaper-check
// ladder.
func (e *Engine) LogDiaperChange(ctx context.Context, identity int64, note string, at time.Time) (*domain.ActivityRecord, error) {
	primary, err := e.groups.PrimaryIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("resolve primary identity: %w", err)
	}
	rec := domain.ActivityRecord{
		ID:         uuid.NewString(),
		SubjectID:  primary,
		Kind:       domain.KindDiaper,
		Note:       note,
		OccurredAt: at,
	}
	if err := e.activities.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("append diaper change: %w", err)
	}
	e.ArmDiaper(primary, at)
	e.groups.FanOut(ctx, identity, fmt.Sprintf("logged a diaper change at %s", at.In(e.loc).Format("15:04")))
	return &rec, nil
}

// LogSupplement records a supplement (vitamin D, probiotics). No ladder
// is keyed off supplements.
func (e *Engine) LogSupplement(ctx context.Context, identity int64, note string, at time.Time) (*domain.ActivityRecord, error) {
	primary, err := e.groups.PrimaryIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("resolve primary identity: %w", err)
	}
	rec := domain.ActivityRecord{
		ID:         uuid.NewString(),
		SubjectID:  primary,
		Kind:       domain.KindSupplement,
		Note:       note,
		OccurredAt: at,
	}
	if err := e.activities.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("append supplement: %w", err)
	}
	e.groups.FanOut(ctx, identity, fmt.Sprintf("gave %s at %s", note, at.In(e.loc).Format("15:04")))
	return &rec, nil
}

// StartSleep marks the subject asleep, cancels the awake-too-long ladder
// and arms the nap-too-long one.
func (e *Engine) StartSleep(ctx context.Context, identity int64, at time.Time) error {
	primary, err := e.groups.PrimaryIdentity(ctx, identity)
	if err != nil {
		return fmt.Errorf("resolve primary identity: %w", err)
	}
	if err := e.tracker.StartSleep(ctx, primary, at); err != nil {
		return err
	}
	e.scheduler.Cancel(primary, domain.ClassAwakeTooLong)
	e.ArmNap(ctx, primary, at)
	e.groups.FanOut(ctx, identity, fmt.Sprintf("sleep started at %s", at.In(e.loc).Format("15:04")))
	return nil
}

// EndSleep closes the ongoing sleep session, cancels the nap-too-long
// ladder and arms awake-too-long from the wake time. Returns the session
// duration in minutes.
func (e *Engine) EndSleep(ctx context.Context, identity int64, at time.Time) (int, error) {
	primary, err := e.groups.PrimaryIdentity(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("resolve primary identity: %w", err)
	}
	minutes, err := e.tracker.EndSleep(ctx, primary, at)
	if err != nil {
		return 0, err
	}
	e.scheduler.Cancel(primary, domain.ClassNapTooLong)
	e.ArmAwake(ctx, primary, at)
	e.groups.FanOut(ctx, identity, fmt.Sprintf("sleep ended at %s (%s)", at.In(e.loc).Format("15:04"), formatMinutes(minutes)))
	return minutes, nil
}

// LatestActivity returns the newest record of the given kind for the
// caller's group, or nil when nothing of that kind has been logged.
// Backs the "how long since the last feeding / change" status read.
func (e *Engine) LatestActivity(ctx context.Context, identity int64, kind domain.ActivityKind) (*domain.ActivityRecord, error) {
	primary, err := e.groups.PrimaryIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("resolve primary identity: %w", err)
	}
	rec, err := e.activities.Latest(ctx, primary, kind)
	if err != nil {
		return nil, fmt.Errorf("load latest %s: %w", kind, err)
	}
	return rec, nil
}

// SleepStatus answers "is the subject asleep" for any member of the
// group, always through the consolidated primary identity.
func (e *Engine) SleepStatus(ctx context.Context, identity int64) (bool, time.Time, error) {
	primary, err := e.groups.PrimaryIdentity(ctx, identity)
	if err != nil {
		return false, time.Time{}, err
	}
	asleep, since := e.tracker.IsAsleep(primary)
	return asleep, since, nil
}

// ArmFeeding arms the feeding-due ladder from base. The due interval is
// age-resolved when a birth date is known, otherwise the newborn default.
func (e *Engine) ArmFeeding(ctx context.Context, subjectID int64, base time.Time) {
	interval := defaultFeedingHours
	if months, ok, err := e.ages.AgeInMonths(ctx, subjectID); err == nil && ok {
		interval = domain.ResolveThresholds(months).FeedingIntervalHours
	}
	e.scheduler.Arm(subjectID, domain.ClassFeedingDue, base, feedingStages(interval), e.deliverReminder)
}

// ArmDiaper arms the diaper-check ladder from base.
func (e *Engine) ArmDiaper(subjectID int64, base time.Time) {
	e.scheduler.Arm(subjectID, domain.ClassDiaperDue, base, diaperStages(e.diaperPick), e.deliverReminder)
}

// ArmAwake arms the awake-too-long ladder from the wake time. Skipped
// when no birth date is known, and during the overnight window, where a
// long wakeful stretch is not an anomaly.
func (e *Engine) ArmAwake(ctx context.Context, subjectID int64, wokeAt time.Time) {
	if e.overnight.Contains(wokeAt.In(e.loc)) {
		return
	}
	months, ok, err := e.ages.AgeInMonths(ctx, subjectID)
	if err != nil || !ok {
		return
	}
	e.scheduler.Arm(subjectID, domain.ClassAwakeTooLong, wokeAt, awakeStages(domain.ResolveThresholds(months)), e.deliverReminder)
}

// ArmNap arms the nap-too-long ladder from the sleep start. Overnight
// sleep is expected to be long and is never flagged.
func (e *Engine) ArmNap(ctx context.Context, subjectID int64, sleepStart time.Time) {
	if e.overnight.Contains(sleepStart.In(e.loc)) {
		return
	}
	months, ok, err := e.ages.AgeInMonths(ctx, subjectID)
	if err != nil || !ok {
		return
	}
	e.scheduler.Arm(subjectID, domain.ClassNapTooLong, sleepStart, napStages(domain.ResolveThresholds(months)), e.deliverReminder)
}

// deliverReminder fans a fired stage out to every linked caregiver
// through the notification gate.
func (e *Engine) deliverReminder(subjectID int64, class domain.ReminderClass, stage domain.Stage) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	members, err := e.groups.AllMembers(ctx, subjectID)
	if err != nil {
		// Deliver at least to the subject's own identity.
		members = []int64{subjectID}
	}
	for _, member := range members {
		e.gate.Deliver(ctx, member, stage.Message, stage.Importance)
	}
}
