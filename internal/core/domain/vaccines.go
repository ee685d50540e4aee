package domain

import "time"

// VaccineDose is one entry in the recommended immunization calendar,
// offset from birth by months (plus a day remainder for the six-week
// doses).
type VaccineDose struct {
	AgeMonths int
	AgeDays   int
	Name      string
	Required  bool
	Note      string
}

// vaccineCalendar is the recommended pediatric immunization calendar the
// planner expands into dated appointments when a birth date is known.
var vaccineCalendar = []VaccineDose{
	{AgeMonths: 0, Name: "Hepatitis B (birth dose)", Required: true, Note: "within 24h of birth"},
	{AgeMonths: 0, Name: "BCG", Required: true, Note: "within 24h of birth"},
	{AgeMonths: 1, AgeDays: 14, Name: "6-in-1 combo (dose 1)", Required: true},
	{AgeMonths: 1, AgeDays: 14, Name: "Rotavirus (dose 1)", Required: false},
	{AgeMonths: 1, AgeDays: 14, Name: "Pneumococcal (dose 1)", Required: false},
	{AgeMonths: 3, Name: "6-in-1 combo (dose 2)", Required: true},
	{AgeMonths: 3, Name: "Rotavirus (dose 2)", Required: false},
	{AgeMonths: 3, Name: "Pneumococcal (dose 2)", Required: false},
	{AgeMonths: 4, Name: "6-in-1 combo (dose 3)", Required: true},
	{AgeMonths: 4, Name: "Pneumococcal (dose 3)", Required: false},
	{AgeMonths: 6, Name: "Seasonal influenza (dose 1)", Required: false, Note: "first-time vaccinees need 2 doses one month apart"},
	{AgeMonths: 7, Name: "Seasonal influenza (dose 2)", Required: false},
	{AgeMonths: 9, Name: "Measles-Mumps-Rubella (dose 1)", Required: true},
	{AgeMonths: 12, Name: "Measles-Mumps-Rubella (dose 2)", Required: true},
	{AgeMonths: 12, Name: "Pneumococcal booster", Required: false},
	{AgeMonths: 12, Name: "Hepatitis A (dose 1)", Required: false},
	{AgeMonths: 15, Name: "6-in-1 combo booster", Required: true},
	{AgeMonths: 18, Name: "Hepatitis A (dose 2)", Required: false},
	{AgeMonths: 24, Name: "Typhoid", Required: false},
	{AgeMonths: 60, Name: "DTP booster", Required: true},
}

// VaccineCalendar returns the recommended dose calendar.
func VaccineCalendar() []VaccineDose {
	return vaccineCalendar
}

// DueDate returns the dose's scheduled date for a given birth date.
func (d VaccineDose) DueDate(birth time.Time) time.Time {
	return birth.AddDate(0, d.AgeMonths, d.AgeDays)
}

// VaccineAppointment is a dated dose for one subject. The reminder flags
// record which advance-notice tiers have already been sent so each tier
// fires at most once.
type VaccineAppointment struct {
	ID          string    `json:"id"`
	SubjectID   int64     `json:"subject_id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Required    bool      `json:"required"`
	Completed   bool      `json:"completed"`
	Reminded7d  bool      `json:"reminded_7d"`
	Reminded3d  bool      `json:"reminded_3d"`
	RemindedDay bool      `json:"reminded_day"`
}
