package notification

import (
	"context"

	"github.com/attendly/attendance-backend-go/internal/domain/notification"
	"github.com/attendly/attendance-backend-go/internal/pkg/sse"
)

type NotificationServiceImpl struct {
	notification.NotificationRepository
	hub *sse.Hub
}

func NewNotificationService(repo notification.NotificationRepository, hub *sse.Hub) notification.Service {
	return &NotificationServiceImpl{
		NotificationRepository: repo,
		hub:                    hub,
	}
}

// Notify implements notification.Service.
func (s *NotificationServiceImpl) Notify(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	created, err := s.NotificationRepository.Create(ctx, n)
	if err != nil {
		return notification.Notification{}, err
	}

	s.hub.Publish(created.RecipientID, sse.Event{
		UserID: created.RecipientID,
		Event:  string(created.Type),
		Data: map[string]interface{}{
			"id":      created.ID,
			"title":   created.Title,
			"message": created.Message,
			"data":    created.Data,
		},
	})

	return created, nil
}

// List implements notification.Service.
func (s *NotificationServiceImpl) List(ctx context.Context, recipientID string, limit, offset int) ([]notification.Notification, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.NotificationRepository.ListByRecipient(ctx, recipientID, limit, offset)
}

// MarkRead implements notification.Service.
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id string, recipientID string) error {
	return s.NotificationRepository.MarkRead(ctx, id, recipientID)
}

// MarkAllRead implements notification.Service.
func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, recipientID string) error {
	return s.NotificationRepository.MarkAllRead(ctx, recipientID)
}

// CountUnread implements notification.Service.
func (s *NotificationServiceImpl) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return s.NotificationRepository.CountUnread(ctx, recipientID)
}
