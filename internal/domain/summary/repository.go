package summary

import (
	"context"
	"time"
)

type SummaryRepository interface {
	// GetByUserAndPeriod returns ErrSummaryNotFound when no row matches.
	GetByUserAndPeriod(ctx context.Context, userID string, periodType PeriodType, periodStart time.Time) (Summary, error)

	// ListMonthly returns a user's monthly rows within a calendar year,
	// ordered by period_start ascending.
	ListMonthly(ctx context.Context, userID string, year int) ([]Summary, error)

	// Upsert replaces the row keyed by (user_id, period_type, period_start).
	Upsert(ctx context.Context, s Summary) (Summary, error)
}
