package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

// Reminder tiers for an upcoming dose. Each tier is sent at most once per
// appointment; the persisted flags survive restarts.
const (
	tier7d    = "7d"
	tier3d    = "3d"
	tierDayOf = "day"
)

// VaccinePlanner expands the recommended immunization calendar into dated
// appointments per subject and drives the daily advance-notice scan.
type VaccinePlanner struct {
	vaccines ports.VaccineRepository
	groups   *GroupService
	gate     *NotificationGate
	loc      *time.Location
	now      func() time.Time
}

func NewVaccinePlanner(vaccines ports.VaccineRepository, groups *GroupService, gate *NotificationGate, loc *time.Location) *VaccinePlanner {
	return &VaccinePlanner{
		vaccines: vaccines,
		groups:   groups,
		gate:     gate,
		loc:      loc,
		now:      time.Now,
	}
}

// GeneratePlan creates dated appointments for every calendar dose still
// in the future, keyed under the caller's primary identity.
func (p *VaccinePlanner) GeneratePlan(ctx context.Context, identity int64, birth time.Time) (int, error) {
	primary, err := p.groups.PrimaryIdentity(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("resolve primary identity: %w", err)
	}

	now := p.now()
	var plan []domain.VaccineAppointment
	for _, dose := range domain.VaccineCalendar() {
		due := dose.DueDate(birth)
		if due.Before(now) {
			continue
		}
		plan = append(plan, domain.VaccineAppointment{
			ID:        uuid.NewString(),
			SubjectID: primary,
			Name:      dose.Name,
			Date:      due,
			Required:  dose.Required,
		})
	}
	if len(plan) == 0 {
		return 0, nil
	}
	if err := p.vaccines.SavePlan(ctx, plan); err != nil {
		return 0, fmt.Errorf("save vaccine plan: %w", err)
	}
	return len(plan), nil
}

// RunDailyScan sends the 7-day, 3-day and day-of notices for upcoming
// appointments. Day-of notices are high importance and are never
// quiet-gated.
func (p *VaccinePlanner) RunDailyScan(ctx context.Context) {
	today := p.startOfToday()
	due, err := p.vaccines.DueBetween(ctx, today.AddDate(0, 0, -1), today.AddDate(0, 0, 8))
	if err != nil {
		log.Printf("vaccines: daily scan query failed: %v", err)
		return
	}

	for _, appt := range due {
		apptDay := time.Date(appt.Date.Year(), appt.Date.Month(), appt.Date.Day(), 0, 0, 0, 0, p.loc)
		daysUntil := int(apptDay.Sub(today).Hours() / 24)

		switch {
		case daysUntil == 7 && !appt.Reminded7d:
			p.notify(ctx, appt,
				fmt.Sprintf("One week until the %s dose (%s). Time to plan the visit.", appt.Name, apptDay.Format("Jan 2")),
				domain.ImportanceNormal, tier7d)
		case daysUntil == 3 && !appt.Reminded3d:
			p.notify(ctx, appt,
				fmt.Sprintf("Three days until the %s dose (%s).", appt.Name, apptDay.Format("Jan 2")),
				domain.ImportanceNormal, tier3d)
		case daysUntil == 0 && !appt.RemindedDay:
			p.notify(ctx, appt,
				fmt.Sprintf("The %s dose is TODAY. Bring the immunization booklet, a favorite toy and spare diapers.", appt.Name),
				domain.ImportanceHigh, tierDayOf)
		}
	}
}

func (p *VaccinePlanner) notify(ctx context.Context, appt domain.VaccineAppointment, msg string, importance domain.Importance, tier string) {
	members, err := p.groups.AllMembers(ctx, appt.SubjectID)
	if err != nil {
		members = []int64{appt.SubjectID}
	}
	for _, m := range members {
		p.gate.Deliver(ctx, m, msg, importance)
	}
	if err := p.vaccines.MarkReminded(ctx, appt.ID, tier); err != nil {
		log.Printf("vaccines: mark %s reminded (%s): %v", appt.ID, tier, err)
	}
}

func (p *VaccinePlanner) startOfToday() time.Time {
	now := p.now().In(p.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, p.loc)
}
