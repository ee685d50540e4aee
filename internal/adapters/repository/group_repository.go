package repository

import (
	"context"
	"database/sql"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
	"github.com/NgocChung1998/BabyCare/internal/core/ports"
)

type GroupRepository struct {
	db *sql.DB
}

// Ensure GroupRepository implements ports.GroupRepository
var _ ports.GroupRepository = (*GroupRepository)(nil)

func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) CreateGroup(ctx context.Context, group domain.FamilyGroup) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO family_groups (id, code, name, primary_identity, active, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		group.ID,
		group.Code,
		group.Name,
		group.PrimaryIdentity,
		group.Active,
		group.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, m := range group.Members {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, identity, display_name, role, joined_at)
             VALUES ($1, $2, $3, $4, $5)`,
			group.ID, m.Identity, m.DisplayName, m.Role, m.JoinedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveGroup rewrites the group row and its full membership. Member churn
// is rare enough that replacing the member set keeps the write simple.
func (r *GroupRepository) SaveGroup(ctx context.Context, group domain.FamilyGroup) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE family_groups
         SET code = $2, name = $3, primary_identity = $4, active = $5
         WHERE id = $1`,
		group.ID,
		group.Code,
		group.Name,
		group.PrimaryIdentity,
		group.Active,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = $1", group.ID)
	if err != nil {
		return err
	}

	for _, m := range group.Members {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, identity, display_name, role, joined_at)
             VALUES ($1, $2, $3, $4, $5)`,
			group.ID, m.Identity, m.DisplayName, m.Role, m.JoinedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *GroupRepository) FindByMember(ctx context.Context, identity int64) (*domain.FamilyGroup, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT g.id, g.code, g.name, g.primary_identity, g.active, g.created_at
         FROM family_groups g
         JOIN group_members m ON m.group_id = g.id
         WHERE m.identity = $1 AND g.active = TRUE`,
		identity,
	)
	return r.scanGroup(ctx, row)
}

func (r *GroupRepository) FindByCode(ctx context.Context, code string) (*domain.FamilyGroup, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, code, name, primary_identity, active, created_at
         FROM family_groups
         WHERE code = $1 AND active = TRUE`,
		code,
	)
	return r.scanGroup(ctx, row)
}

func (r *GroupRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM family_groups WHERE code = $1)",
		code,
	).Scan(&exists)
	return exists, err
}

func (r *GroupRepository) scanGroup(ctx context.Context, row *sql.Row) (*domain.FamilyGroup, error) {
	var g domain.FamilyGroup
	err := row.Scan(&g.ID, &g.Code, &g.Name, &g.PrimaryIdentity, &g.Active, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT identity, display_name, role, joined_at
         FROM group_members
         WHERE group_id = $1
         ORDER BY joined_at`,
		g.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.GroupMember
		if err := rows.Scan(&m.Identity, &m.DisplayName, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		g.Members = append(g.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) GetProfile(ctx context.Context, identity int64) (*domain.SubjectProfile, error) {
	var p domain.SubjectProfile
	var name sql.NullString
	var birth sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT identity, display_name, birth_date, quiet_hours_enabled
         FROM subject_profiles
         WHERE identity = $1`,
		identity,
	).Scan(&p.Identity, &name, &birth, &p.QuietHoursEnabled)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.DisplayName = name.String
	if birth.Valid {
		t := birth.Time
		p.BirthDate = &t
	}
	return &p, nil
}

func (r *GroupRepository) UpsertProfile(ctx context.Context, profile domain.SubjectProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subject_profiles (identity, display_name, birth_date, quiet_hours_enabled)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (identity) DO UPDATE
         SET display_name = $2, birth_date = $3, quiet_hours_enabled = $4`,
		profile.Identity,
		profile.DisplayName,
		profile.BirthDate,
		profile.QuietHoursEnabled,
	)
	return err
}

func (r *GroupRepository) ListProfiles(ctx context.Context) ([]domain.SubjectProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT identity, display_name, birth_date, quiet_hours_enabled
         FROM subject_profiles`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.SubjectProfile
	for rows.Next() {
		var p domain.SubjectProfile
		var name sql.NullString
		var birth sql.NullTime
		if err := rows.Scan(&p.Identity, &name, &birth, &p.QuietHoursEnabled); err != nil {
			return nil, err
		}
		p.DisplayName = name.String
		if birth.Valid {
			t := birth.Time
			p.BirthDate = &t
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
