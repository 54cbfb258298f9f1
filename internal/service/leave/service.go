package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/leave"
	"github.com/attendly/attendance-backend-go/internal/domain/notification"
	"github.com/attendly/attendance-backend-go/internal/domain/profile"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/email"
	"github.com/attendly/attendance-backend-go/internal/pkg/metrics"
)

type LeaveServiceImpl struct {
	leave.LeaveRepository
	user.UserRepository
	profile.ProfileRepository
	notifier     notification.Service
	emailService email.EmailService
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewLeaveService(
	leaveRepo leave.LeaveRepository,
	userRepo user.UserRepository,
	profileRepo profile.ProfileRepository,
	notifier notification.Service,
	emailService email.EmailService,
	m *metrics.Metrics,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRepository:   leaveRepo,
		UserRepository:    userRepo,
		ProfileRepository: profileRepo,
		notifier:          notifier,
		emailService:      emailService,
		metrics:           m,
		now:               time.Now,
	}
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	created, err := s.LeaveRepository.Create(ctx, leave.LeaveRequest{
		UserID:    userID,
		LeaveType: leave.LeaveType(req.LeaveType),
		StartDate: start,
		EndDate:   end,
		TotalDays: leave.TotalDays(start, end),
		Reason:    req.Reason,
		Status:    leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.metrics.LeaveRequests.Inc()
	s.notify(ctx, userID, nil, notification.TypeLeaveRequested, "Leave request submitted",
		fmt.Sprintf("%s leave from %s to %s is awaiting approval", req.LeaveType, req.StartDate, req.EndDate),
		created.ID)

	return leave.ToResponse(created), nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, userID string, requestID string) (leave.LeaveRequestResponse, error) {
	req, err := s.LeaveRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if req.UserID != userID {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}
	if !req.IsPending() {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	req.Status = leave.StatusCancelled

	updated, err := s.LeaveRepository.UpdateStatus(ctx, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.ToResponse(updated), nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, approverID string, requestID string) (leave.LeaveRequestResponse, error) {
	return s.decide(ctx, approverID, requestID, leave.StatusApproved, nil)
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, approverID string, requestID string, req leave.RejectLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return s.decide(ctx, approverID, requestID, leave.StatusRejected, &req.RejectionReason)
}

func (s *LeaveServiceImpl) decide(ctx context.Context, approverID, requestID string, status leave.LeaveStatus, rejectionReason *string) (leave.LeaveRequestResponse, error) {
	req, err := s.LeaveRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !req.IsPending() {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveAlreadyProcessed
	}

	now := s.now().UTC()
	req.Status = status
	req.ApprovedBy = &approverID
	req.ApprovedAt = &now
	req.RejectionReason = rejectionReason

	updated, err := s.LeaveRepository.UpdateStatus(ctx, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	outcome := string(status)
	s.metrics.LeaveDecisions.WithLabelValues(outcome).Inc()

	nType := notification.TypeLeaveApproved
	if status == leave.StatusRejected {
		nType = notification.TypeLeaveRejected
	}
	s.notify(ctx, updated.UserID, &approverID, nType,
		fmt.Sprintf("Leave request %s", outcome),
		fmt.Sprintf("Your %s leave from %s to %s was %s",
			updated.LeaveType, updated.StartDate.Format("2006-01-02"), updated.EndDate.Format("2006-01-02"), outcome),
		updated.ID)
	s.sendDecisionEmail(ctx, updated)

	return leave.ToResponse(updated), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, userID string, filter leave.ListFilter) ([]leave.LeaveRequestResponse, int64, error) {
	filter.Normalize()

	requests, total, err := s.LeaveRepository.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(requests), total, nil
}

// ListAll implements leave.LeaveService.
func (s *LeaveServiceImpl) ListAll(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequestResponse, int64, error) {
	filter.Normalize()

	requests, total, err := s.LeaveRepository.ListAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(requests), total, nil
}

func toResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, leave.ToResponse(req))
	}
	return responses
}

func (s *LeaveServiceImpl) notify(ctx context.Context, recipientID string, senderID *string, nType notification.NotificationType, title, message, leaveID string) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.Notify(ctx, notification.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        nType,
		Title:       title,
		Message:     message,
		Data:        map[string]interface{}{"leave_request_id": leaveID},
	})
	if err != nil {
		slog.Error("failed to send leave notification", "error", err, "recipient_id", recipientID)
	}
}

// sendDecisionEmail mails the requester. Best effort; the decision itself
// is already committed.
func (s *LeaveServiceImpl) sendDecisionEmail(ctx context.Context, req leave.LeaveRequest) {
	if s.emailService == nil {
		return
	}

	account, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		slog.Error("failed to load user for decision email", "error", err, "user_id", req.UserID)
		return
	}

	var fullName string
	if p, err := s.ProfileRepository.GetByID(ctx, req.UserID); err == nil && p.FullName != nil {
		fullName = *p.FullName
	}

	err = s.emailService.SendLeaveDecision(
		account.Email, fullName, string(req.LeaveType),
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"),
		string(req.Status), req.RejectionReason,
	)
	if err != nil {
		slog.Error("failed to send leave decision email", "error", err, "user_id", req.UserID)
	}
}
