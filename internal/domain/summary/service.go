package summary

import (
	"context"
	"time"
)

// SummaryService is the read path over pre-aggregated rows, plus the
// rebuild entry point the scheduler calls.
type SummaryService interface {
	// Monthly returns ErrSummaryNotFound when the month has no row yet.
	Monthly(ctx context.Context, userID string, month time.Time) (SummaryResponse, error)

	Yearly(ctx context.Context, userID string, year int) (YearlyRollup, error)

	// RebuildMonth recomputes and stores one user's summary for the month
	// containing the given date.
	RebuildMonth(ctx context.Context, userID string, month time.Time) (Summary, error)

	// RebuildCurrentMonth refreshes every user active in the current month.
	RebuildCurrentMonth(ctx context.Context) error
}
