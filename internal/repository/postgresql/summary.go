package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/summary"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type summaryRepository struct {
	db *database.DB
}

func NewSummaryRepository(db *database.DB) summary.SummaryRepository {
	return &summaryRepository{db: db}
}

const summaryColumns = `
	id, user_id, period_type, period_start, period_end,
	present_days, absent_days, late_days, leave_days,
	total_work_hours, overtime_hours, attendance_rate, punctuality_rate,
	created_at, updated_at
`

// GetByUserAndPeriod implements summary.SummaryRepository.
func (r *summaryRepository) GetByUserAndPeriod(ctx context.Context, userID string, periodType summary.PeriodType, periodStart time.Time) (summary.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `
		FROM attendance_summaries
		WHERE user_id = $1 AND period_type = $2 AND period_start = $3
	`

	return scanSummary(q.QueryRow(ctx, query, userID, string(periodType), periodStart))
}

// ListMonthly implements summary.SummaryRepository.
func (r *summaryRepository) ListMonthly(ctx context.Context, userID string, year int) ([]summary.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `
		FROM attendance_summaries
		WHERE user_id = $1 AND period_type = 'monthly'
			AND period_start >= $2 AND period_start < $3
		ORDER BY period_start ASC
	`

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	rows, err := q.Query(ctx, query, userID, yearStart, yearEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly summaries: %w", err)
	}
	defer rows.Close()

	var summaries []summary.Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summaries: %w", err)
	}

	return summaries, nil
}

// Upsert implements summary.SummaryRepository.
func (r *summaryRepository) Upsert(ctx context.Context, s summary.Summary) (summary.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_summaries (user_id, period_type, period_start, period_end,
			present_days, absent_days, late_days, leave_days,
			total_work_hours, overtime_hours, attendance_rate, punctuality_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, period_type, period_start) DO UPDATE SET
			period_end = EXCLUDED.period_end,
			present_days = EXCLUDED.present_days,
			absent_days = EXCLUDED.absent_days,
			late_days = EXCLUDED.late_days,
			leave_days = EXCLUDED.leave_days,
			total_work_hours = EXCLUDED.total_work_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			attendance_rate = EXCLUDED.attendance_rate,
			punctuality_rate = EXCLUDED.punctuality_rate,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.UserID, string(s.PeriodType), s.PeriodStart, s.PeriodEnd,
		s.PresentDays, s.AbsentDays, s.LateDays, s.LeaveDays,
		s.TotalWorkHours, s.OvertimeHours, s.AttendanceRate, s.PunctualityRate,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return summary.Summary{}, fmt.Errorf("failed to upsert summary: %w", err)
	}

	return s, nil
}

func scanSummary(row pgx.Row) (summary.Summary, error) {
	var s summary.Summary
	var periodType string
	err := row.Scan(
		&s.ID, &s.UserID, &periodType, &s.PeriodStart, &s.PeriodEnd,
		&s.PresentDays, &s.AbsentDays, &s.LateDays, &s.LeaveDays,
		&s.TotalWorkHours, &s.OvertimeHours, &s.AttendanceRate, &s.PunctualityRate,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return summary.Summary{}, summary.ErrSummaryNotFound
		}
		return summary.Summary{}, fmt.Errorf("failed to scan summary: %w", err)
	}
	s.PeriodType = summary.PeriodType(periodType)
	return s, nil
}
