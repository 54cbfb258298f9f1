package leave

import "context"

// LeaveService drives the request lifecycle. Requests are never physically
// deleted; cancellation is a status transition reserved to the pending
// owner.
type LeaveService interface {
	Submit(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, userID string, requestID string) (LeaveRequestResponse, error)

	// Approve and Reject require manager or admin; enforced at the route
	// and re-checked against the approver ID recorded here.
	Approve(ctx context.Context, approverID string, requestID string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, approverID string, requestID string, req RejectLeaveRequest) (LeaveRequestResponse, error)

	ListMine(ctx context.Context, userID string, filter ListFilter) ([]LeaveRequestResponse, int64, error)
	ListAll(ctx context.Context, filter ListFilter) ([]LeaveRequestResponse, int64, error)
}
