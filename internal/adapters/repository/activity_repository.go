package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

type ActivityRepository struct {
	db *sql.DB
}

// Ensure ActivityRepository implements ports.ActivityRepository
var _ ports.ActivityRepository = (*ActivityRepository)(nil)

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, rec domain.ActivityRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_records (id, subject_id, kind, amount_ml, duration_minutes, note, occurred_at, ended_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID,
		rec.SubjectID,
		rec.Kind,
		rec.AmountML,
		rec.DurationMinutes,
		rec.Note,
		rec.OccurredAt,
		rec.EndedAt,
	)
	return err
}

func (r *ActivityRepository) Query(ctx context.Context, subjectIDs []int64, kind domain.ActivityKind, from, to time.Time) ([]domain.ActivityRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, subject_id, kind, amount_ml, duration_minutes, note, occurred_at, ended_at
         FROM activity_records
         WHERE subject_id = ANY($1) AND kind = $2 AND occurred_at >= $3 AND occurred_at <= $4
         ORDER BY occurred_at DESC`,
		pq.Array(subjectIDs), kind, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ActivityRecord
	for rows.Next() {
		rec, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *ActivityRepository) Latest(ctx context.Context, subjectID int64, kind domain.ActivityKind) (*domain.ActivityRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, subject_id, kind, amount_ml, duration_minutes, note, occurred_at, ended_at
         FROM activity_records
         WHERE subject_id = $1 AND kind = $2
         ORDER BY occurred_at DESC
         LIMIT 1`,
		subjectID, kind,
	)
	rec, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *ActivityRepository) GetOngoingSleep(ctx context.Context, subjectID int64) (*domain.OngoingSleep, error) {
	var startedAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		"SELECT sleep_started_at FROM subject_profiles WHERE identity = $1",
		subjectID,
	).Scan(&startedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !startedAt.Valid {
		return nil, nil
	}
	return &domain.OngoingSleep{SubjectID: subjectID, StartedAt: startedAt.Time}, nil
}

func (r *ActivityRepository) SetOngoingSleep(ctx context.Context, subjectID int64, startedAt *time.Time) error {
	// The profile row may not exist yet for a subject that starts a sleep
	// before ever setting a birth date.
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subject_profiles (identity, sleep_started_at)
         VALUES ($1, $2)
         ON CONFLICT (identity) DO UPDATE SET sleep_started_at = $2`,
		subjectID, startedAt,
	)
	return err
}

func (r *ActivityRepository) ListOngoingSleeps(ctx context.Context) ([]domain.OngoingSleep, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT identity, sleep_started_at FROM subject_profiles WHERE sleep_started_at IS NOT NULL",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sleeps []domain.OngoingSleep
	for rows.Next() {
		var s domain.OngoingSleep
		if err := rows.Scan(&s.SubjectID, &s.StartedAt); err != nil {
			return nil, err
		}
		sleeps = append(sleeps, s)
	}
	return sleeps, rows.Err()
}

func (r *ActivityRepository) LatestPerSubject(ctx context.Context, kind domain.ActivityKind, since time.Time) ([]domain.ActivityRecord, error) {
	// Sleep records are anchored at the moment they finished, not the
	// moment they started, so the cutoff compares against ended_at when set.
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT ON (subject_id)
            id, subject_id, kind, amount_ml, duration_minutes, note, occurred_at, ended_at
         FROM activity_records
         WHERE kind = $1 AND COALESCE(ended_at, occurred_at) >= $2
         ORDER BY subject_id, COALESCE(ended_at, occurred_at) DESC`,
		kind, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ActivityRecord
	for rows.Next() {
		rec, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (domain.ActivityRecord, error) {
	var rec domain.ActivityRecord
	var note sql.NullString
	var endedAt sql.NullTime
	err := row.Scan(
		&rec.ID,
		&rec.SubjectID,
		&rec.Kind,
		&rec.AmountML,
		&rec.DurationMinutes,
		&note,
		&rec.OccurredAt,
		&endedAt,
	)
	if err != nil {
		return domain.ActivityRecord{}, err
	}
	rec.Note = note.String
	if endedAt.Valid {
		t := endedAt.Time
		rec.EndedAt = &t
	}
	return rec, nil
}
