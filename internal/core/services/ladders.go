package services

import (
	"fmt"
	"math/rand"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
)

// Stage tables for the four reminder classes. Feeding and diaper use
// fixed ladders around a (possibly age-resolved) due interval; awake and
// nap ladders are computed from the age-threshold table at arm time.

const (
	diaperMinMinutes     = 180
	diaperMaxMinutes     = 240
	defaultFeedingHours  = 2.5
	awakeOverdueMinutes  = 20
	napOverdueMinutes    = 30
	diaperOverdueMinutes = 30
)

func formatMinutes(m int) string {
	h := m / 60
	if h > 0 {
		if rem := m % 60; rem > 0 {
			return fmt.Sprintf("%dh%02dm", h, rem)
		}
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// feedingStages builds the escalating feeding-due ladder around the due
// interval: heads-up 30 and 10 minutes ahead, on time, then 15 and 30
// minutes overdue.
func feedingStages(intervalHours float64) []domain.Stage {
	if intervalHours <= 0 {
		intervalHours = defaultFeedingHours
	}
	due := int(intervalHours * 60)
	return []domain.Stage{
		{OffsetMinutes: due - 30, Message: "Next feeding is due in about 30 minutes.", Importance: domain.ImportanceLow},
		{OffsetMinutes: due - 10, Message: "Next feeding is due in about 10 minutes.", Importance: domain.ImportanceLow},
		{OffsetMinutes: due, Message: fmt.Sprintf("It has been %s since the last feeding. Time to feed.", formatMinutes(due)), Importance: domain.ImportanceNormal},
		{OffsetMinutes: due + 15, Message: "Feeding is 15 minutes overdue.", Importance: domain.ImportanceNormal},
		{OffsetMinutes: due + 30, Message: "Feeding is 30 minutes overdue.", Importance: domain.ImportanceNormal},
	}
}

// diaperStages builds the diaper-check ladder. The base interval is
// randomized inside the 3-4 hour band so checks do not land on a rigid
// clock, matching how caregivers actually check.
func diaperStages(pick func(min, max int) int) []domain.Stage {
	if pick == nil {
		pick = randBetween
	}
	due := pick(diaperMinMinutes, diaperMaxMinutes)
	return []domain.Stage{
		{OffsetMinutes: due, Message: fmt.Sprintf("It has been %s since the last diaper change. Time for a check.", formatMinutes(due)), Importance: domain.ImportanceNormal},
		{OffsetMinutes: due + diaperOverdueMinutes, Message: "Diaper check is 30 minutes overdue.", Importance: domain.ImportanceNormal},
	}
}

func randBetween(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// awakeStages builds the awake-too-long ladder from the age-resolved
// maximum wakeful window.
func awakeStages(t domain.AgeThresholds) []domain.Stage {
	return []domain.Stage{
		{
			OffsetMinutes: t.AwakeMaxMinutes,
			Message:       fmt.Sprintf("Awake for %s now, past the recommended window of %s-%s. Consider winding down for a nap.", formatMinutes(t.AwakeMaxMinutes), formatMinutes(t.AwakeMinMinutes), formatMinutes(t.AwakeMaxMinutes)),
			Importance:    domain.ImportanceNormal,
		},
		{
			OffsetMinutes: t.AwakeMaxMinutes + awakeOverdueMinutes,
			Message:       fmt.Sprintf("Still awake %s past the recommended window.", formatMinutes(awakeOverdueMinutes)),
			Importance:    domain.ImportanceNormal,
		},
	}
}

// napStages builds the nap-too-long ladder from the age-resolved maximum
// nap length.
func napStages(t domain.AgeThresholds) []domain.Stage {
	return []domain.Stage{
		{
			OffsetMinutes: t.NapMaxMinutes,
			Message:       fmt.Sprintf("This nap has run %s, past the typical %s-%s range. A gentle wake-up may help keep the night routine on track.", formatMinutes(t.NapMaxMinutes), formatMinutes(t.NapMinMinutes), formatMinutes(t.NapMaxMinutes)),
			Importance:    domain.ImportanceNormal,
		},
		{
			OffsetMinutes: t.NapMaxMinutes + napOverdueMinutes,
			Message:       fmt.Sprintf("The nap is now %s over the typical maximum.", formatMinutes(napOverdueMinutes)),
			Importance:    domain.ImportanceNormal,
		},
	}
}
