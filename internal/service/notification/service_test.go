package notification

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-backend-go/internal/domain/notification"
	"github.com/attendly/attendance-backend-go/internal/pkg/sse"
)

type fakeNotificationRepo struct {
	created    []notification.Notification
	lastLimit  int
	lastOffset int
	nextID     int
}

func (f *fakeNotificationRepo) Create(_ context.Context, n notification.Notification) (notification.Notification, error) {
	f.nextID++
	n.ID = fmt.Sprintf("notif-%d", f.nextID)
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, limit, offset int) ([]notification.Notification, int64, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	var out []notification.Notification
	for _, n := range f.created {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, _ string, _ string) error  { return nil }
func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, _ string) error         { return nil }
func (f *fakeNotificationRepo) CountUnread(_ context.Context, _ string) (int64, error) { return 0, nil }

func TestNotify_PersistsAndPublishes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub)

	ch, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	created, err := svc.Notify(context.Background(), notification.Notification{
		RecipientID: "user-1",
		Type:        notification.TypeCheckIn,
		Title:       "Checked in",
		Message:     "Checked in at 09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "notif-1", created.ID)
	require.Len(t, repo.created, 1)

	select {
	case ev := <-ch:
		assert.Equal(t, string(notification.TypeCheckIn), ev.Event)
		data, ok := ev.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "notif-1", data["id"])
		assert.Equal(t, "Checked in", data["title"])
	default:
		t.Fatal("expected a published event")
	}
}

func TestNotify_NoSubscribers(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, sse.NewHub())

	_, err := svc.Notify(context.Background(), notification.Notification{
		RecipientID: "user-1",
		Type:        notification.TypeCheckOut,
		Title:       "Checked out",
	})
	assert.NoError(t, err)
}

func TestList_ClampsLimit(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, sse.NewHub())
	ctx := context.Background()

	_, _, err := svc.List(ctx, "user-1", 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)

	_, _, err = svc.List(ctx, "user-1", 500, 10)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)
	assert.Equal(t, 10, repo.lastOffset)

	_, _, err = svc.List(ctx, "user-1", 25, 0)
	require.NoError(t, err)
	assert.Equal(t, 25, repo.lastLimit)
}
