package domain

// AgeThresholds are the recommended activity windows for one age bucket:
// how long the subject should stay awake between sleeps, how long a nap
// should run, and the target interval between feedings.
type AgeThresholds struct {
	MinMonths            int
	MaxMonths            int // exclusive; the last bucket is open-ended
	AwakeMinMinutes      int
	AwakeMaxMinutes      int
	NapMinMinutes        int
	NapMaxMinutes        int
	FeedingIntervalHours float64
}

// ageThresholdTable partitions age-in-months into ordered, gap-free,
// non-overlapping buckets. It is read-only; coverage of [0, oo) is
// asserted by tests.
var ageThresholdTable = []AgeThresholds{
	{MinMonths: 0, MaxMonths: 3, AwakeMinMinutes: 45, AwakeMaxMinutes: 90, NapMinMinutes: 30, NapMaxMinutes: 120, FeedingIntervalHours: 2.5},
	{MinMonths: 3, MaxMonths: 6, AwakeMinMinutes: 90, AwakeMaxMinutes: 150, NapMinMinutes: 45, NapMaxMinutes: 150, FeedingIntervalHours: 3},
	{MinMonths: 6, MaxMonths: 9, AwakeMinMinutes: 120, AwakeMaxMinutes: 180, NapMinMinutes: 60, NapMaxMinutes: 150, FeedingIntervalHours: 3.5},
	{MinMonths: 9, MaxMonths: 12, AwakeMinMinutes: 150, AwakeMaxMinutes: 240, NapMinMinutes: 60, NapMaxMinutes: 150, FeedingIntervalHours: 3.5},
	{MinMonths: 12, MaxMonths: 24, AwakeMinMinutes: 240, AwakeMaxMinutes: 360, NapMinMinutes: 60, NapMaxMinutes: 180, FeedingIntervalHours: 4},
	{MinMonths: 24, MaxMonths: 60, AwakeMinMinutes: 300, AwakeMaxMinutes: 420, NapMinMinutes: 45, NapMaxMinutes: 150, FeedingIntervalHours: 4},
}

// AgeThresholdTable returns the full bucket table, oldest bucket last.
func AgeThresholdTable() []AgeThresholds {
	return ageThresholdTable
}

// ResolveThresholds returns the thresholds for an age in months. Inputs
// outside the table are clamped to the nearest bucket, so a five-year-old
// still resolves to the oldest bucket instead of erroring.
func ResolveThresholds(ageMonths int) AgeThresholds {
	if ageMonths < 0 {
		ageMonths = 0
	}
	for _, b := range ageThresholdTable {
		if ageMonths >= b.MinMonths && ageMonths < b.MaxMonths {
			return b
		}
	}
	return ageThresholdTable[len(ageThresholdTable)-1]
}
