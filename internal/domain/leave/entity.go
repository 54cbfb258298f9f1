package leave

import "time"

type LeaveType string

const (
	TypeVacation    LeaveType = "vacation"
	TypeSick        LeaveType = "sick"
	TypePersonal    LeaveType = "personal"
	TypeMaternity   LeaveType = "maternity"
	TypePaternity   LeaveType = "paternity"
	TypeBereavement LeaveType = "bereavement"
	TypeUnpaid      LeaveType = "unpaid"
)

func IsValidLeaveType(s string) bool {
	switch LeaveType(s) {
	case TypeVacation, TypeSick, TypePersonal, TypeMaternity,
		TypePaternity, TypeBereavement, TypeUnpaid:
		return true
	}
	return false
}

type LeaveStatus string

const (
	StatusPending   LeaveStatus = "pending"
	StatusApproved  LeaveStatus = "approved"
	StatusRejected  LeaveStatus = "rejected"
	StatusCancelled LeaveStatus = "cancelled"
)

// LeaveRequest entity. Status moves pending -> approved/rejected/cancelled
// and is immutable afterwards.
type LeaveRequest struct {
	ID              string
	UserID          string
	LeaveType       LeaveType
	StartDate       time.Time
	EndDate         time.Time
	TotalDays       int
	Reason          *string
	Status          LeaveStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined for approval listings
	FullName *string
}

// IsPending reports whether the request can still be decided or cancelled.
func (l *LeaveRequest) IsPending() bool {
	return l.Status == StatusPending
}

// TotalDays is the inclusive day count between two calendar dates:
// 2024-01-01..2024-01-03 counts 3.
func TotalDays(start, end time.Time) int {
	start = start.Truncate(24 * time.Hour)
	end = end.Truncate(24 * time.Hour)
	return int(end.Sub(start).Hours()/24) + 1
}
