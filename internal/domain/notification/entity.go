package notification

import "time"

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeCheckIn        NotificationType = "attendance_check_in"
	TypeCheckOut       NotificationType = "attendance_check_out"
	TypeLeaveRequested NotificationType = "leave_requested"
	TypeLeaveApproved  NotificationType = "leave_approved"
	TypeLeaveRejected  NotificationType = "leave_rejected"
	TypeAccountCreated NotificationType = "account_created"
)

// Notification is one row in attendance_notifications.
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
