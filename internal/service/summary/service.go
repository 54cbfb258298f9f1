package summary

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/summary"
)

// standardDayHours is the baseline workday; worked time beyond it counts
// as overtime.
const standardDayHours = 8.0

type SummaryServiceImpl struct {
	summary.SummaryRepository
	attendance.AttendanceRepository
	now func() time.Time
}

func NewSummaryService(
	summaryRepo summary.SummaryRepository,
	attendanceRepo attendance.AttendanceRepository,
) summary.SummaryService {
	return &SummaryServiceImpl{
		SummaryRepository:    summaryRepo,
		AttendanceRepository: attendanceRepo,
		now:                  time.Now,
	}
}

func monthBounds(month time.Time) (time.Time, time.Time) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// Monthly implements summary.SummaryService.
func (s *SummaryServiceImpl) Monthly(ctx context.Context, userID string, month time.Time) (summary.SummaryResponse, error) {
	start, _ := monthBounds(month)

	row, err := s.SummaryRepository.GetByUserAndPeriod(ctx, userID, summary.PeriodMonthly, start)
	if err != nil {
		return summary.SummaryResponse{}, err
	}
	return summary.ToResponse(row), nil
}

// Yearly implements summary.SummaryService.
func (s *SummaryServiceImpl) Yearly(ctx context.Context, userID string, year int) (summary.YearlyRollup, error) {
	months, err := s.SummaryRepository.ListMonthly(ctx, userID, year)
	if err != nil {
		return summary.YearlyRollup{}, err
	}
	return summary.Rollup(userID, year, months), nil
}

// RebuildMonth implements summary.SummaryService.
func (s *SummaryServiceImpl) RebuildMonth(ctx context.Context, userID string, month time.Time) (summary.Summary, error) {
	start, end := monthBounds(month)

	counts, err := s.AttendanceRepository.CountByStatus(ctx, userID, start, end)
	if err != nil {
		return summary.Summary{}, fmt.Errorf("failed to aggregate attendance: %w", err)
	}

	totalWorkHours := round2(float64(counts.TotalWorkMinutes) / 60.0)
	overtime := totalWorkHours - standardDayHours*float64(counts.PresentDays)
	if overtime < 0 {
		overtime = 0
	}

	var attendanceRate, punctualityRate float64
	if counts.TotalDays > 0 {
		attendanceRate = round2(float64(counts.PresentDays) / float64(counts.TotalDays) * 100)
	}
	if counts.PresentDays > 0 {
		punctualityRate = round2(float64(counts.PresentDays-counts.LateDays) / float64(counts.PresentDays) * 100)
	}

	return s.SummaryRepository.Upsert(ctx, summary.Summary{
		UserID:          userID,
		PeriodType:      summary.PeriodMonthly,
		PeriodStart:     start,
		PeriodEnd:       end,
		PresentDays:     counts.PresentDays,
		AbsentDays:      counts.AbsentDays,
		LateDays:        counts.LateDays,
		LeaveDays:       counts.LeaveDays,
		TotalWorkHours:  totalWorkHours,
		OvertimeHours:   round2(overtime),
		AttendanceRate:  attendanceRate,
		PunctualityRate: punctualityRate,
	})
}

// RebuildCurrentMonth implements summary.SummaryService. One user failing
// does not stop the sweep.
func (s *SummaryServiceImpl) RebuildCurrentMonth(ctx context.Context) error {
	now := s.now().UTC()
	start, end := monthBounds(now)

	userIDs, err := s.AttendanceRepository.ActiveUserIDs(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}

	var failed int
	for _, userID := range userIDs {
		if _, err := s.RebuildMonth(ctx, userID, now); err != nil {
			failed++
			slog.Error("failed to rebuild monthly summary", "error", err, "user_id", userID)
		}
	}
	if failed > 0 {
		return fmt.Errorf("summary rebuild failed for %d of %d users", failed, len(userIDs))
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
