package leave

import "context"

type LeaveRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)

	// GetByID returns ErrLeaveRequestNotFound when no row matches.
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// UpdateStatus writes the decision fields. The WHERE clause also pins
	// status = 'pending' so two concurrent decisions cannot both win; a
	// lost race reports ErrLeaveAlreadyProcessed.
	UpdateStatus(ctx context.Context, req LeaveRequest) (LeaveRequest, error)

	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]LeaveRequest, int64, error)

	// ListAll serves the approval queue, newest first.
	ListAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error)
}
