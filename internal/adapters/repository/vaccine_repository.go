package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

type VaccineRepository struct {
	db *sql.DB
}

// Ensure VaccineRepository implements ports.VaccineRepository
var _ ports.VaccineRepository = (*VaccineRepository)(nil)

func NewVaccineRepository(db *sql.DB) *VaccineRepository {
	return &VaccineRepository{db: db}
}

// SavePlan replaces any existing plan for the subjects covered by the new
// appointments. Regenerating after a birth-date correction must not leave
// stale dates behind.
func (r *VaccineRepository) SavePlan(ctx context.Context, appointments []domain.VaccineAppointment) error {
	if len(appointments) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	subjects := map[int64]struct{}{}
	for _, a := range appointments {
		subjects[a.SubjectID] = struct{}{}
	}
	for subjectID := range subjects {
		_, err = tx.ExecContext(ctx,
			"DELETE FROM vaccine_appointments WHERE subject_id = $1 AND completed = FALSE",
			subjectID,
		)
		if err != nil {
			return err
		}
	}

	for _, a := range appointments {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO vaccine_appointments
                (id, subject_id, name, date, required, completed, reminded_7d, reminded_3d, reminded_day)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			a.ID, a.SubjectID, a.Name, a.Date, a.Required,
			a.Completed, a.Reminded7d, a.Reminded3d, a.RemindedDay,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *VaccineRepository) DueBetween(ctx context.Context, from, to time.Time) ([]domain.VaccineAppointment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, subject_id, name, date, required, completed, reminded_7d, reminded_3d, reminded_day
         FROM vaccine_appointments
         WHERE completed = FALSE AND date >= $1 AND date <= $2
         ORDER BY date`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []domain.VaccineAppointment
	for rows.Next() {
		var a domain.VaccineAppointment
		err := rows.Scan(
			&a.ID, &a.SubjectID, &a.Name, &a.Date, &a.Required,
			&a.Completed, &a.Reminded7d, &a.Reminded3d, &a.RemindedDay,
		)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (r *VaccineRepository) MarkReminded(ctx context.Context, appointmentID string, tier string) error {
	var column string
	switch tier {
	case "7d":
		column = "reminded_7d"
	case "3d":
		column = "reminded_3d"
	case "day":
		column = "reminded_day"
	default:
		return fmt.Errorf("unknown reminder tier %q", tier)
	}

	_, err := r.db.ExecContext(ctx,
		"UPDATE vaccine_appointments SET "+column+" = TRUE WHERE id = $1",
		appointmentID,
	)
	return err
}

func (r *VaccineRepository) MarkCompleted(ctx context.Context, appointmentID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE vaccine_appointments SET completed = TRUE WHERE id = $1",
		appointmentID,
	)
	return err
}
