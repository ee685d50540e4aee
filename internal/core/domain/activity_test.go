package domain

import (
	"testing"
	"time"
)

func TestSubjectProfile_AgeInMonths(t *testing.T) {
	birth := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		birthDate  *time.Time
		at         time.Time
		wantMonths int
		wantOK     bool
	}{
		{name: "no_birth_date", birthDate: nil, at: time.Now(), wantMonths: 0, wantOK: false},
		{name: "same_day", birthDate: &birth, at: birth, wantMonths: 0, wantOK: true},
		{name: "just_under_one_month", birthDate: &birth, at: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), wantMonths: 0, wantOK: true},
		{name: "exactly_one_month", birthDate: &birth, at: time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), wantMonths: 1, wantOK: true},
		{name: "across_year_boundary", birthDate: &birth, at: time.Date(2027, 3, 20, 0, 0, 0, 0, time.UTC), wantMonths: 14, wantOK: true},
		{name: "before_birth_clamps_to_zero", birthDate: &birth, at: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), wantMonths: 0, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SubjectProfile{Identity: 1, BirthDate: tt.birthDate}
			months, ok := p.AgeInMonths(tt.at)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if months != tt.wantMonths {
				t.Errorf("months = %d, want %d", months, tt.wantMonths)
			}
		})
	}
}

func TestFamilyGroup_OtherIdentities(t *testing.T) {
	g := FamilyGroup{
		Members: []GroupMember{
			{Identity: 10}, {Identity: 20}, {Identity: 30},
		},
	}

	others := g.OtherIdentities(20)
	if len(others) != 2 {
		t.Fatalf("expected 2 other identities, got %d", len(others))
	}
	for _, id := range others {
		if id == 20 {
			t.Error("excluded identity present in result")
		}
	}
}

func TestVaccineDose_DueDate(t *testing.T) {
	birth := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	dose := VaccineDose{AgeMonths: 1, AgeDays: 14}
	want := time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC)
	if got := dose.DueDate(birth); !got.Equal(want) {
		t.Errorf("DueDate = %v, want %v", got, want)
	}
}
