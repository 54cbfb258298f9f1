package summary

import "time"

type PeriodType string

const (
	PeriodMonthly PeriodType = "monthly"
)

// Summary is one pre-aggregated row per (user, period). The application
// treats these as read-only; the rebuild job is the only writer.
type Summary struct {
	ID              string
	UserID          string
	PeriodType      PeriodType
	PeriodStart     time.Time
	PeriodEnd       time.Time
	PresentDays     int
	AbsentDays      int
	LateDays        int
	LeaveDays       int
	TotalWorkHours  float64
	OvertimeHours   float64
	AttendanceRate  float64
	PunctualityRate float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
