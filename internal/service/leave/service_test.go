package leave

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-backend-go/internal/domain/leave"
	"github.com/attendly/attendance-backend-go/internal/domain/notification"
	"github.com/attendly/attendance-backend-go/internal/domain/profile"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/metrics"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

type fakeLeaveRepo struct {
	requests map[string]leave.LeaveRequest
	nextID   int
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{requests: make(map[string]leave.LeaveRequest)}
}

func (f *fakeLeaveRepo) Create(_ context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.nextID++
	req.ID = fmt.Sprintf("leave-%d", f.nextID)
	req.CreatedAt = time.Now().UTC()
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeLeaveRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (f *fakeLeaveRepo) UpdateStatus(_ context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	stored, ok := f.requests[req.ID]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if stored.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveAlreadyProcessed
	}
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeLeaveRepo) ListByUser(_ context.Context, userID string, _ leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	var out []leave.LeaveRequest
	for _, req := range f.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeLeaveRepo) ListAll(_ context.Context, _ leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	var out []leave.LeaveRequest
	for _, req := range f.requests {
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) { return u, nil }

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id string, _ string) error {
	if _, ok := f.users[id]; !ok {
		return user.ErrUserNotFound
	}
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]profile.Profile
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p profile.Profile) (profile.Profile, error) {
	f.profiles[p.ID] = p
	return p, nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (profile.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) GetRole(ctx context.Context, id string) (string, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return string(p.Role), nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p profile.Profile) (profile.Profile, error) {
	f.profiles[p.ID] = p
	return p, nil
}

func (f *fakeProfileRepo) List(_ context.Context, _ profile.ListFilter) ([]profile.Profile, int64, error) {
	return nil, 0, nil
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
func (f *fakeNotifier) MarkRead(context.Context, string, string) error     { return nil }
func (f *fakeNotifier) MarkAllRead(context.Context, string) error          { return nil }
func (f *fakeNotifier) CountUnread(context.Context, string) (int64, error) { return 0, nil }

type decisionEmail struct {
	to     string
	status string
}

type fakeEmailService struct {
	decisions []decisionEmail
}

func (f *fakeEmailService) SendWelcome(string, string, string, string) error { return nil }

func (f *fakeEmailService) SendLeaveDecision(to, _, _, _, _, status string, _ *string) error {
	f.decisions = append(f.decisions, decisionEmail{to: to, status: status})
	return nil
}

type leaveFixture struct {
	svc      *LeaveServiceImpl
	repo     *fakeLeaveRepo
	notifier *fakeNotifier
	emails   *fakeEmailService
}

func newFixture(t *testing.T) *leaveFixture {
	t.Helper()

	name := "Dana Smith"
	repo := newFakeLeaveRepo()
	notifier := &fakeNotifier{}
	emails := &fakeEmailService{}
	userRepo := &fakeUserRepo{users: map[string]user.User{
		"user-1": {ID: "user-1", Email: "dana@example.com"},
	}}
	profileRepo := &fakeProfileRepo{profiles: map[string]profile.Profile{
		"user-1": {ID: "user-1", FullName: &name, Role: user.RoleEmployee, IsActive: true},
	}}

	f := &leaveFixture{repo: repo, notifier: notifier, emails: emails}
	f.svc = &LeaveServiceImpl{
		LeaveRepository:   repo,
		UserRepository:    userRepo,
		ProfileRepository: profileRepo,
		notifier:          notifier,
		emailService:      emails,
		metrics:           metrics.NewWith(prometheus.NewRegistry()),
		now:               func() time.Time { return time.Date(2024, time.March, 11, 12, 0, 0, 0, time.UTC) },
	}
	return f
}

func (f *leaveFixture) submit(t *testing.T, userID string) leave.LeaveRequestResponse {
	t.Helper()

	resp, err := f.svc.Submit(context.Background(), userID, leave.CreateLeaveRequest{
		LeaveType: "vacation",
		StartDate: "2024-04-01",
		EndDate:   "2024-04-03",
	})
	require.NoError(t, err)
	return resp
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)

	resp := f.submit(t, "user-1")

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 3, resp.TotalDays)
	assert.Equal(t, "2024-04-01", resp.StartDate)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notification.TypeLeaveRequested, f.notifier.sent[0].Type)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), "user-1", leave.CreateLeaveRequest{
		LeaveType: "vacation",
		StartDate: "2024-04-03",
		EndDate:   "2024-04-01",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "end_date")
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.submit(t, "user-1")

	resp, err := f.svc.Cancel(ctx, "user-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	_, err = f.svc.Cancel(ctx, "user-1", created.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestCancel_NotOwner(t *testing.T) {
	f := newFixture(t)

	created := f.submit(t, "user-1")

	_, err := f.svc.Cancel(context.Background(), "user-2", created.ID)
	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)
}

func TestCancel_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Cancel(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.submit(t, "user-1")

	resp, err := f.svc.Approve(ctx, "manager-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, "manager-1", *resp.ApprovedBy)
	require.NotNil(t, resp.ApprovedAt)

	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, notification.TypeLeaveApproved, f.notifier.sent[1].Type)
	assert.Equal(t, "user-1", f.notifier.sent[1].RecipientID)

	require.Len(t, f.emails.decisions, 1)
	assert.Equal(t, "dana@example.com", f.emails.decisions[0].to)
	assert.Equal(t, "approved", f.emails.decisions[0].status)
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.submit(t, "user-1")

	resp, err := f.svc.Reject(ctx, "manager-1", created.ID, leave.RejectLeaveRequest{
		RejectionReason: "staffing shortage that week",
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "staffing shortage that week", *resp.RejectionReason)

	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, notification.TypeLeaveRejected, f.notifier.sent[1].Type)
}

func TestReject_RequiresReason(t *testing.T) {
	f := newFixture(t)

	created := f.submit(t, "user-1")

	_, err := f.svc.Reject(context.Background(), "manager-1", created.ID, leave.RejectLeaveRequest{})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestDecide_AlreadyProcessed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.submit(t, "user-1")

	_, err := f.svc.Approve(ctx, "manager-1", created.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, "manager-2", created.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)

	_, err = f.svc.Reject(ctx, "manager-2", created.ID, leave.RejectLeaveRequest{RejectionReason: "late"})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestListMine(t *testing.T) {
	f := newFixture(t)

	f.submit(t, "user-1")
	f.submit(t, "user-2")

	mine, total, err := f.svc.ListMine(context.Background(), "user-1", leave.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, "user-1", mine[0].UserID)
}
