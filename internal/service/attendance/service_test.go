package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/notification"
	"github.com/attendly/attendance-backend-go/internal/pkg/metrics"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

type fakeAttendanceRepo struct {
	records map[string]attendance.Attendance
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (f *fakeAttendanceRepo) key(userID string, date time.Time) string {
	return userID + "/" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	k := f.key(att.UserID, att.Date)
	if _, exists := f.records[k]; exists {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	f.nextID++
	att.ID = fmt.Sprintf("att-%d", f.nextID)
	f.records[k] = att
	return att, nil
}

func (f *fakeAttendanceRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	att, ok := f.records[f.key(userID, date)]
	if !ok {
		return nil, nil
	}
	copied := att
	return &copied, nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	f.records[f.key(att.UserID, att.Date)] = att
	return att, nil
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	k := f.key(att.UserID, att.Date)
	if existing, ok := f.records[k]; ok {
		att.ID = existing.ID
	} else {
		f.nextID++
		att.ID = fmt.Sprintf("att-%d", f.nextID)
	}
	f.records[k] = att
	return att, nil
}

func (f *fakeAttendanceRepo) Delete(_ context.Context, userID string, date time.Time) error {
	k := f.key(userID, date)
	if _, ok := f.records[k]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(f.records, k)
	return nil
}

func (f *fakeAttendanceRepo) ListByUser(_ context.Context, userID string, _ attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	var out []attendance.Attendance
	for _, att := range f.records {
		if att.UserID == userID {
			out = append(out, att)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) CountByStatus(_ context.Context, _ string, _, _ time.Time) (attendance.StatusCounts, error) {
	return attendance.StatusCounts{}, nil
}

func (f *fakeAttendanceRepo) ActiveUserIDs(_ context.Context, _, _ time.Time) ([]string, error) {
	return nil, nil
}

type fakeNotifier struct {
	sent []notification.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n notification.Notification) (notification.Notification, error) {
	f.sent = append(f.sent, n)
	return n, nil
}

func (f *fakeNotifier) List(context.Context, string, int, int) ([]notification.Notification, int64, error) {
	return nil, 0, nil
}
func (f *fakeNotifier) MarkRead(context.Context, string, string) error    { return nil }
func (f *fakeNotifier) MarkAllRead(context.Context, string) error         { return nil }
func (f *fakeNotifier) CountUnread(context.Context, string) (int64, error) { return 0, nil }

type serviceFixture struct {
	svc      *AttendanceServiceImpl
	repo     *fakeAttendanceRepo
	notifier *fakeNotifier
	clock    *time.Time
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	now := time.Date(2024, time.March, 11, 9, 0, 0, 0, time.UTC)
	repo := newFakeAttendanceRepo()
	notifier := &fakeNotifier{}
	f := &serviceFixture{repo: repo, notifier: notifier, clock: &now}
	f.svc = &AttendanceServiceImpl{
		AttendanceRepository: repo,
		notifier:             notifier,
		metrics:              metrics.NewWith(prometheus.NewRegistry()),
		now:                  func() time.Time { return *f.clock },
	}
	return f
}

func (f *serviceFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func TestCheckIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-11", resp.Date)
	require.NotNil(t, resp.CheckIn)
	assert.Equal(t, "2024-03-11T09:00:00Z", *resp.CheckIn)
	assert.Equal(t, "present", resp.Status)
	assert.Equal(t, "office", resp.WorkMode)
	assert.Equal(t, "In progress", resp.WorkHours)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notification.TypeCheckIn, f.notifier.sent[0].Type)
	assert.Equal(t, "user-1", f.notifier.sent[0].RecipientID)
}

func TestCheckIn_InvalidWorkMode(t *testing.T) {
	f := newFixture(t)
	mode := "submarine"

	_, err := f.svc.CheckIn(context.Background(), "user-1", attendance.CheckInRequest{WorkMode: &mode})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestCheckIn_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_AfterCompletedDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)
	f.advance(8 * time.Hour)
	_, err = f.svc.CheckOut(ctx, "user-1")
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCompleted)
}

func TestCheckOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)

	f.advance(8*time.Hour + 30*time.Minute)
	resp, err := f.svc.CheckOut(ctx, "user-1")
	require.NoError(t, err)

	require.NotNil(t, resp.CheckOut)
	assert.Equal(t, "2024-03-11T17:30:00Z", *resp.CheckOut)
	assert.Equal(t, "8h 30m", resp.WorkHours)

	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, notification.TypeCheckOut, f.notifier.sent[1].Type)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckOut(context.Background(), "user-1")
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)
	f.advance(time.Hour)
	_, err = f.svc.CheckOut(ctx, "user-1")
	require.NoError(t, err)

	_, err = f.svc.CheckOut(ctx, "user-1")
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckOut_ClosesOpenBreak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)

	f.advance(3 * time.Hour)
	_, err = f.svc.StartBreak(ctx, "user-1")
	require.NoError(t, err)

	f.advance(45 * time.Minute)
	resp, err := f.svc.CheckOut(ctx, "user-1")
	require.NoError(t, err)

	require.NotNil(t, resp.BreakEnd)
	assert.Equal(t, 45, resp.TotalBreakMinutes)
	assert.Equal(t, "3h 0m", resp.WorkHours)
}

func TestBreakLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx, "user-1")
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)

	_, err = f.svc.EndBreak(ctx, "user-1")
	assert.ErrorIs(t, err, attendance.ErrNotOnBreak)

	f.advance(3 * time.Hour)
	_, err = f.svc.StartBreak(ctx, "user-1")
	require.NoError(t, err)

	_, err = f.svc.StartBreak(ctx, "user-1")
	assert.ErrorIs(t, err, attendance.ErrAlreadyOnBreak)

	f.advance(30 * time.Minute)
	resp, err := f.svc.EndBreak(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 30, resp.TotalBreakMinutes)

	// The single break window is spent for the rest of the day.
	_, err = f.svc.StartBreak(ctx, "user-1")
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyTaken)
}

func TestUndoCheckOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)
	f.advance(8 * time.Hour)
	_, err = f.svc.CheckOut(ctx, "user-1")
	require.NoError(t, err)

	f.advance(5 * time.Minute)
	resp, err := f.svc.UndoCheckOut(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, resp.CheckOut)
	assert.Equal(t, "In progress", resp.WorkHours)

	// Checking out again after an undo is allowed.
	_, err = f.svc.CheckOut(ctx, "user-1")
	require.NoError(t, err)
}

func TestUndoCheckOut_AtWindowBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)
	f.advance(8 * time.Hour)
	_, err = f.svc.CheckOut(ctx, "user-1")
	require.NoError(t, err)

	f.advance(10 * time.Minute)
	_, err = f.svc.UndoCheckOut(ctx, "user-1")
	assert.NoError(t, err)
}

func TestUndoCheckOut_WindowExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)
	f.advance(8 * time.Hour)
	_, err = f.svc.CheckOut(ctx, "user-1")
	require.NoError(t, err)

	f.advance(10*time.Minute + time.Second)
	_, err = f.svc.UndoCheckOut(ctx, "user-1")
	assert.ErrorIs(t, err, attendance.ErrUndoWindowExpired)
}

func TestUndoCheckOut_NothingToUndo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UndoCheckOut(ctx, "user-1")
	assert.ErrorIs(t, err, attendance.ErrNothingToUndo)

	_, err = f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)

	_, err = f.svc.UndoCheckOut(ctx, "user-1")
	assert.ErrorIs(t, err, attendance.ErrNothingToUndo)
}

func TestToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Today(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, resp)

	_, err = f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)

	resp, err = f.svc.Today(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "2024-03-11", resp.Date)
}

func TestAdminUpsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	checkIn := "2024-03-11T08:00:00Z"
	checkOut := "2024-03-11T16:00:00Z"
	resp, err := f.svc.AdminUpsert(ctx, attendance.AdminUpsertRequest{
		UserID: "user-1",
		Date:   "2024-03-11",
		Patch: attendance.AttendancePatch{
			CheckIn:  &checkIn,
			CheckOut: &checkOut,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "8h 0m", resp.WorkHours)

	// A later patch applies on top of the stored record.
	status := "late"
	resp, err = f.svc.AdminUpsert(ctx, attendance.AdminUpsertRequest{
		UserID: "user-1",
		Date:   "2024-03-11",
		Patch: attendance.AttendancePatch{
			Status: &status,
			Clear:  []string{"check_out"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "late", resp.Status)
	assert.Nil(t, resp.CheckOut)
	require.NotNil(t, resp.CheckIn)
	assert.Equal(t, checkIn, *resp.CheckIn)
}

func TestAdminUpsert_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AdminUpsert(context.Background(), attendance.AdminUpsertRequest{
		UserID: "",
		Date:   "not-a-date",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestAdminDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "user-1", attendance.CheckInRequest{})
	require.NoError(t, err)

	err = f.svc.AdminDelete(ctx, attendance.AdminDeleteRequest{UserID: "user-1", Date: "2024-03-11"})
	require.NoError(t, err)

	err = f.svc.AdminDelete(ctx, attendance.AdminDeleteRequest{UserID: "user-1", Date: "2024-03-11"})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}
