package attendance

import (
	"context"
	"time"
)

// AttendanceService drives the day lifecycle: check-in, single break
// window, check-out and the bounded undo, plus the admin override path
// that skips every transition guard.
type AttendanceService interface {
	CheckIn(ctx context.Context, userID string, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, userID string) (AttendanceResponse, error)
	StartBreak(ctx context.Context, userID string) (AttendanceResponse, error)
	EndBreak(ctx context.Context, userID string) (AttendanceResponse, error)
	UndoCheckOut(ctx context.Context, userID string) (AttendanceResponse, error)

	// Today returns nil when the user has no record for the current day.
	Today(ctx context.Context, userID string) (*AttendanceResponse, error)

	// History lists a user's records, date descending. Also serves the
	// manager read path; authorization happens at the route.
	History(ctx context.Context, userID string, filter HistoryFilter) ([]AttendanceResponse, int64, error)

	// AdminGet returns nil data when no record exists for the day.
	AdminGet(ctx context.Context, userID string, date time.Time) (*AttendanceResponse, error)
	AdminUpsert(ctx context.Context, req AdminUpsertRequest) (AttendanceResponse, error)
	AdminDelete(ctx context.Context, req AdminDeleteRequest) error
}
