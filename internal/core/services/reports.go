package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
)

// Night sleep starts in the evening window; everything else counts as a
// nap for digest purposes.
var nightWindow = domain.ClockWindow{StartHour: 19, EndHour: 6}

// SleepStats summarizes the last N days of sleep sessions.
type SleepStats struct {
	Days             int
	TotalMinutes     int
	NightMinutes     int
	NapMinutes       int
	NapCount         int
	NightCount       int
	AveragePerDayMin int
}

// SleepStats computes sleep statistics over the trailing window for any
// group member, reading the consolidated record set.
func (e *Engine) SleepStats(ctx context.Context, identity int64, days int) (*SleepStats, error) {
	members, err := e.groups.AllMembers(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("resolve members: %w", err)
	}
	now := e.now().In(e.loc)
	from := now.AddDate(0, 0, -days)

	sessions, err := e.activities.Query(ctx, members, domain.KindSleep, from, now)
	if err != nil {
		return nil, fmt.Errorf("query sleep sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	stats := &SleepStats{Days: days}
	for _, s := range sessions {
		stats.TotalMinutes += s.DurationMinutes
		if nightWindow.Contains(s.OccurredAt.In(e.loc)) {
			stats.NightMinutes += s.DurationMinutes
			stats.NightCount++
		} else {
			stats.NapMinutes += s.DurationMinutes
			stats.NapCount++
		}
	}
	stats.AveragePerDayMin = stats.TotalMinutes / days
	return stats, nil
}

// RunWeeklyDigest sends every subject's caregivers a low-importance
// seven-day sleep summary. Low importance means an opted-in caregiver
// receives it after quiet hours rather than late on Sunday evening.
func (e *Engine) RunWeeklyDigest(ctx context.Context) {
	profiles, err := e.groups.Profiles(ctx)
	if err != nil {
		log.Printf("digest: list profiles: %v", err)
		return
	}
	for _, p := range profiles {
		stats, err := e.SleepStats(ctx, p.Identity, 7)
		if err != nil {
			log.Printf("digest: stats for %d: %v", p.Identity, err)
			continue
		}
		if stats == nil {
			continue
		}
		msg := fmt.Sprintf(
			"This week's sleep: %s/day on average, %s at night and %s in naps (%d naps, %d night sessions). Keep the routine going!",
			formatMinutes(stats.AveragePerDayMin),
			formatMinutes(stats.NightMinutes),
			formatMinutes(stats.NapMinutes),
			stats.NapCount,
			stats.NightCount,
		)
		members, err := e.groups.AllMembers(ctx, p.Identity)
		if err != nil {
			members = []int64{p.Identity}
		}
		for _, m := range members {
			e.gate.Deliver(ctx, m, msg, domain.ImportanceLow)
		}
	}
}

// ScheduleRecurring registers the recurring engine jobs: the daily
// vaccine scan and the Sunday-evening sleep digest.
func (e *Engine) ScheduleRecurring(planner *VaccinePlanner) error {
	if err := e.scheduler.ScheduleCron("vaccine-scan", "0 9 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		planner.RunDailyScan(ctx)
	}); err != nil {
		return err
	}
	return e.scheduler.ScheduleCron("weekly-sleep-digest", "0 20 * * 0", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		e.RunWeeklyDigest(ctx)
	})
}
