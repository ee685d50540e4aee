package domain

import "testing"

// TestAgeThresholdTable_Coverage verifies the bucket table is ordered,
// gap-free and non-overlapping from birth to the end of the last bucket.
func TestAgeThresholdTable_Coverage(t *testing.T) {
	table := AgeThresholdTable()
	if len(table) == 0 {
		t.Fatal("threshold table is empty")
	}

	if table[0].MinMonths != 0 {
		t.Errorf("first bucket must start at 0, starts at %d", table[0].MinMonths)
	}

	for i, b := range table {
		if b.MinMonths >= b.MaxMonths {
			t.Errorf("bucket %d: MinMonths %d >= MaxMonths %d", i, b.MinMonths, b.MaxMonths)
		}
		if i > 0 && b.MinMonths != table[i-1].MaxMonths {
			t.Errorf("gap or overlap between bucket %d (ends %d) and bucket %d (starts %d)",
				i-1, table[i-1].MaxMonths, i, b.MinMonths)
		}
	}
}

// TestAgeThresholdTable_Sanity verifies each bucket carries plausible
// windows: min below max, positive feeding interval.
func TestAgeThresholdTable_Sanity(t *testing.T) {
	for i, b := range AgeThresholdTable() {
		if b.AwakeMinMinutes <= 0 || b.AwakeMinMinutes >= b.AwakeMaxMinutes {
			t.Errorf("bucket %d: bad awake window %d-%d", i, b.AwakeMinMinutes, b.AwakeMaxMinutes)
		}
		if b.NapMinMinutes <= 0 || b.NapMinMinutes >= b.NapMaxMinutes {
			t.Errorf("bucket %d: bad nap window %d-%d", i, b.NapMinMinutes, b.NapMaxMinutes)
		}
		if b.FeedingIntervalHours <= 0 {
			t.Errorf("bucket %d: bad feeding interval %v", i, b.FeedingIntervalHours)
		}
	}
}

func TestResolveThresholds(t *testing.T) {
	tests := []struct {
		name      string
		ageMonths int
		wantMin   int
	}{
		{name: "newborn", ageMonths: 0, wantMin: 0},
		{name: "bucket_boundary_is_next_bucket", ageMonths: 3, wantMin: 3},
		{name: "inside_bucket", ageMonths: 7, wantMin: 6},
		{name: "negative_clamps_to_first", ageMonths: -5, wantMin: 0},
		{name: "beyond_table_clamps_to_last", ageMonths: 120, wantMin: 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveThresholds(tt.ageMonths)
			if got.MinMonths != tt.wantMin {
				t.Errorf("ResolveThresholds(%d) resolved bucket starting at %d, want %d",
					tt.ageMonths, got.MinMonths, tt.wantMin)
			}
		})
	}
}
