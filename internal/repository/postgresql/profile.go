package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/attendly/attendance-backend-go/internal/domain/profile"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type profileRepository struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) profile.ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `
	p.id, p.full_name, p.employee_id, p.department, p.position, p.role,
	p.work_schedule, p.timezone, p.phone, p.is_active, p.created_at, p.updated_at,
	u.email
`

// Upsert implements profile.ProfileRepository.
func (r *profileRepository) Upsert(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO profiles (id, full_name, employee_id, department, position, role,
			work_schedule, timezone, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			employee_id = EXCLUDED.employee_id,
			department = EXCLUDED.department,
			position = EXCLUDED.position,
			role = EXCLUDED.role,
			work_schedule = EXCLUDED.work_schedule,
			timezone = EXCLUDED.timezone,
			phone = EXCLUDED.phone,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID, p.FullName, p.EmployeeID, p.Department, p.Position, string(p.Role),
		p.WorkSchedule, p.Timezone, p.Phone, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return profile.Profile{}, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return p, nil
}

// GetByID implements profile.ProfileRepository.
func (r *profileRepository) GetByID(ctx context.Context, id string) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		LEFT JOIN users u ON u.id = p.id
		WHERE p.id = $1
	`

	return scanProfile(q.QueryRow(ctx, query, id))
}

// GetRole implements profile.ProfileRepository.
func (r *profileRepository) GetRole(ctx context.Context, id string) (string, error) {
	q := GetQuerier(ctx, r.db)

	var role string
	err := q.QueryRow(ctx, `SELECT role FROM profiles WHERE id = $1 AND is_active`, id).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", profile.ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to get profile role: %w", err)
	}
	return role, nil
}

// Update implements profile.ProfileRepository.
func (r *profileRepository) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE profiles
		SET full_name = $2, employee_id = $3, department = $4, position = $5,
			role = $6, work_schedule = $7, timezone = $8, phone = $9,
			is_active = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID, p.FullName, p.EmployeeID, p.Department, p.Position, string(p.Role),
		p.WorkSchedule, p.Timezone, p.Phone, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return p, nil
}

// List implements profile.ProfileRepository.
func (r *profileRepository) List(ctx context.Context, filter profile.ListFilter) ([]profile.Profile, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.Role != nil && *filter.Role != "" {
		baseWhere += fmt.Sprintf(" AND p.role = $%d", argIdx)
		args = append(args, *filter.Role)
		argIdx++
	}

	if filter.IsActive != nil {
		baseWhere += fmt.Sprintf(" AND p.is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM profiles p WHERE " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		LEFT JOIN users u ON u.id = p.id
		WHERE ` + baseWhere + fmt.Sprintf(`
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, total, nil
}

func scanProfile(row pgx.Row) (profile.Profile, error) {
	var p profile.Profile
	var role string
	err := row.Scan(
		&p.ID, &p.FullName, &p.EmployeeID, &p.Department, &p.Position, &role,
		&p.WorkSchedule, &p.Timezone, &p.Phone, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&p.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to scan profile: %w", err)
	}
	p.Role = user.Role(role)
	return p, nil
}
