package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for day records. The
// (user_id, date) pair is unique; Create surfaces a violation as
// ErrAlreadyCheckedIn so two racing check-ins stay distinguishable from a
// generic failure.
type AttendanceRepository interface {
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByUserAndDate returns (nil, nil) when no record exists for the day.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	Update(ctx context.Context, att Attendance) (Attendance, error)

	// Upsert inserts or replaces the full field set. Admin override path.
	Upsert(ctx context.Context, att Attendance) (Attendance, error)

	// Delete removes the whole-day record. Returns ErrAttendanceNotFound
	// when nothing matched.
	Delete(ctx context.Context, userID string, date time.Time) error

	// ListByUser returns records ordered by date descending.
	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Attendance, int64, error)

	// CountByStatus aggregates a date range into per-status day counts plus
	// total worked minutes. Feeds the summary rebuild job.
	CountByStatus(ctx context.Context, userID string, from, to time.Time) (StatusCounts, error)

	// ActiveUserIDs lists users having at least one record in the range.
	ActiveUserIDs(ctx context.Context, from, to time.Time) ([]string, error)
}

// StatusCounts is the raw aggregation over a period.
type StatusCounts struct {
	PresentDays       int
	AbsentDays        int
	LateDays          int
	LeaveDays         int
	TotalDays         int
	TotalWorkMinutes  int
	TotalBreakMinutes int
}
