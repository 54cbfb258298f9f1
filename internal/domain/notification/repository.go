package notification

import "context"

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) (Notification, error)

	// ListByRecipient returns rows newest first.
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]Notification, int64, error)

	MarkRead(ctx context.Context, id string, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}
