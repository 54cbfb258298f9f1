package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/notification"
	"github.com/attendly/attendance-backend-go/internal/pkg/metrics"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	notifier notification.Service
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	notifier notification.Service,
	m *metrics.Metrics,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		notifier:             notifier,
		metrics:              m,
		now:                  time.Now,
	}
}

// today returns the current instant and its UTC calendar date.
func (a *AttendanceServiceImpl) today() (time.Time, time.Time) {
	now := a.now().UTC()
	return now, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now, date := a.today()

	existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if existing != nil {
		if existing.IsComplete() {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCompleted
		}
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	workMode := attendance.WorkModeOffice
	if req.WorkMode != nil {
		workMode = attendance.WorkMode(*req.WorkMode)
	}

	att := attendance.Attendance{
		UserID:       userID,
		Date:         date,
		CheckIn:      &now,
		Status:       attendance.StatusPresent,
		WorkMode:     workMode,
		LocationName: req.LocationName,
		Notes:        req.Notes,
	}

	created, err := a.AttendanceRepository.Create(ctx, att)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.metrics.CheckIns.Inc()
	a.notify(ctx, userID, notification.TypeCheckIn, "Checked in",
		fmt.Sprintf("Checked in at %s", now.Format("15:04")), created.ID)

	return attendance.ToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now, date := a.today()

	att, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if att == nil || att.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if att.IsComplete() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	// An open break is closed implicitly at checkout.
	if att.OnBreak() {
		att.BreakEnd = &now
		att.TotalBreakMinutes = attendance.BreakMinutes(*att.BreakStart, now)
	}
	att.CheckOut = &now

	updated, err := a.AttendanceRepository.Update(ctx, *att)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.metrics.CheckOuts.Inc()
	a.notify(ctx, userID, notification.TypeCheckOut, "Checked out",
		fmt.Sprintf("Checked out at %s", now.Format("15:04")), updated.ID)

	return attendance.ToResponse(updated), nil
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now, date := a.today()

	att, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if att == nil || att.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if att.IsComplete() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}
	if att.OnBreak() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyOnBreak
	}
	if att.BreakTaken() {
		return attendance.AttendanceResponse{}, attendance.ErrBreakAlreadyTaken
	}

	att.BreakStart = &now

	updated, err := a.AttendanceRepository.Update(ctx, *att)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(updated), nil
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now, date := a.today()

	att, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if att == nil || att.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if !att.OnBreak() {
		return attendance.AttendanceResponse{}, attendance.ErrNotOnBreak
	}

	att.BreakEnd = &now
	att.TotalBreakMinutes = attendance.BreakMinutes(*att.BreakStart, now)

	updated, err := a.AttendanceRepository.Update(ctx, *att)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(updated), nil
}

// UndoCheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UndoCheckOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now, date := a.today()

	att, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if att == nil || att.CheckOut == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNothingToUndo
	}
	if !att.CanUndoCheckout(now) {
		return attendance.AttendanceResponse{}, attendance.ErrUndoWindowExpired
	}

	att.CheckOut = nil

	updated, err := a.AttendanceRepository.Update(ctx, *att)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.metrics.CheckoutUndos.Inc()

	return attendance.ToResponse(updated), nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context, userID string) (*attendance.AttendanceResponse, error) {
	_, date := a.today()

	att, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if att == nil {
		return nil, nil
	}

	resp := attendance.ToResponse(*att)
	return &resp, nil
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.AttendanceResponse, int64, error) {
	filter.Normalize()

	records, total, err := a.AttendanceRepository.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		responses = append(responses, attendance.ToResponse(att))
	}
	return responses, total, nil
}

// AdminGet implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) AdminGet(ctx context.Context, userID string, date time.Time) (*attendance.AttendanceResponse, error) {
	att, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}
	if att == nil {
		return nil, nil
	}

	resp := attendance.ToResponse(*att)
	return &resp, nil
}

// AdminUpsert implements attendance.AttendanceService. The patch applies on
// top of the existing record when one exists, bypassing transition guards.
func (a *AttendanceServiceImpl) AdminUpsert(ctx context.Context, req attendance.AdminUpsertRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, req.UserID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	att := attendance.Attendance{
		UserID:   req.UserID,
		Date:     date,
		Status:   attendance.StatusPresent,
		WorkMode: attendance.WorkModeOffice,
	}
	if existing != nil {
		att = *existing
	}

	applyPatch(&att, req.Patch)

	updated, err := a.AttendanceRepository.Upsert(ctx, att)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(updated), nil
}

// AdminDelete implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) AdminDelete(ctx context.Context, req attendance.AdminDeleteRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	return a.AttendanceRepository.Delete(ctx, req.UserID, date)
}

func applyPatch(att *attendance.Attendance, patch attendance.AttendancePatch) {
	parse := func(s string) *time.Time {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil
		}
		t = t.UTC()
		return &t
	}

	if patch.CheckIn != nil {
		att.CheckIn = parse(*patch.CheckIn)
	}
	if patch.CheckOut != nil {
		att.CheckOut = parse(*patch.CheckOut)
	}
	if patch.BreakStart != nil {
		att.BreakStart = parse(*patch.BreakStart)
	}
	if patch.BreakEnd != nil {
		att.BreakEnd = parse(*patch.BreakEnd)
	}
	if patch.TotalBreakMinutes != nil {
		att.TotalBreakMinutes = *patch.TotalBreakMinutes
	}
	if patch.Status != nil {
		att.Status = attendance.Status(*patch.Status)
	}
	if patch.WorkMode != nil {
		att.WorkMode = attendance.WorkMode(*patch.WorkMode)
	}
	if patch.LocationName != nil {
		att.LocationName = patch.LocationName
	}
	if patch.Notes != nil {
		att.Notes = patch.Notes
	}

	for _, name := range patch.Clear {
		switch name {
		case "check_in":
			att.CheckIn = nil
		case "check_out":
			att.CheckOut = nil
		case "break_start":
			att.BreakStart = nil
		case "break_end":
			att.BreakEnd = nil
		case "location_name":
			att.LocationName = nil
		case "notes":
			att.Notes = nil
		}
	}
}

// notify records an event for the acting user. Failures are logged, never
// surfaced; the attendance write already succeeded.
func (a *AttendanceServiceImpl) notify(ctx context.Context, userID string, nType notification.NotificationType, title, message, attendanceID string) {
	if a.notifier == nil {
		return
	}
	_, err := a.notifier.Notify(ctx, notification.Notification{
		RecipientID: userID,
		Type:        nType,
		Title:       title,
		Message:     message,
		Data:        map[string]interface{}{"attendance_id": attendanceID},
	})
	if err != nil {
		slog.Error("failed to send attendance notification", "error", err, "user_id", userID)
	}
}
