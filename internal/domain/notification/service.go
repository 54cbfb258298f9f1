package notification

import "context"

// Service persists notifications and pushes them to live SSE subscribers.
type Service interface {
	// Notify stores the notification and publishes it to the recipient's
	// open streams. Persistence failure is returned; a slow subscriber is
	// not an error.
	Notify(ctx context.Context, n Notification) (Notification, error)

	List(ctx context.Context, recipientID string, limit, offset int) ([]Notification, int64, error)
	MarkRead(ctx context.Context, id string, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}
