package summary

type SummaryResponse struct {
	UserID          string  `json:"user_id"`
	PeriodType      string  `json:"period_type"`
	PeriodStart     string  `json:"period_start"`
	PeriodEnd       string  `json:"period_end"`
	PresentDays     int     `json:"present_days"`
	AbsentDays      int     `json:"absent_days"`
	LateDays        int     `json:"late_days"`
	LeaveDays       int     `json:"leave_days"`
	TotalWorkHours  float64 `json:"total_work_hours"`
	OvertimeHours   float64 `json:"overtime_hours"`
	AttendanceRate  float64 `json:"attendance_rate"`
	PunctualityRate float64 `json:"punctuality_rate"`
}

func ToResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		UserID:          s.UserID,
		PeriodType:      string(s.PeriodType),
		PeriodStart:     s.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       s.PeriodEnd.Format("2006-01-02"),
		PresentDays:     s.PresentDays,
		AbsentDays:      s.AbsentDays,
		LateDays:        s.LateDays,
		LeaveDays:       s.LeaveDays,
		TotalWorkHours:  s.TotalWorkHours,
		OvertimeHours:   s.OvertimeHours,
		AttendanceRate:  s.AttendanceRate,
		PunctualityRate: s.PunctualityRate,
	}
}

// YearlyRollup averages the stored monthly percentages with equal weight
// per month and sums the absolute figures.
type YearlyRollup struct {
	UserID             string  `json:"user_id"`
	Year               int     `json:"year"`
	MonthsCounted      int     `json:"months_counted"`
	PresentDays        int     `json:"present_days"`
	AbsentDays         int     `json:"absent_days"`
	LateDays           int     `json:"late_days"`
	LeaveDays          int     `json:"leave_days"`
	TotalWorkHours     float64 `json:"total_work_hours"`
	OvertimeHours      float64 `json:"overtime_hours"`
	AvgAttendanceRate  float64 `json:"avg_attendance_rate"`
	AvgPunctualityRate float64 `json:"avg_punctuality_rate"`
}

// Rollup computes the yearly view from monthly rows. Each month counts
// equally in the rate averages regardless of its length.
func Rollup(userID string, year int, months []Summary) YearlyRollup {
	r := YearlyRollup{UserID: userID, Year: year, MonthsCounted: len(months)}
	if len(months) == 0 {
		return r
	}

	var attendanceSum, punctualitySum float64
	for _, m := range months {
		r.PresentDays += m.PresentDays
		r.AbsentDays += m.AbsentDays
		r.LateDays += m.LateDays
		r.LeaveDays += m.LeaveDays
		r.TotalWorkHours += m.TotalWorkHours
		r.OvertimeHours += m.OvertimeHours
		attendanceSum += m.AttendanceRate
		punctualitySum += m.PunctualityRate
	}
	r.AvgAttendanceRate = attendanceSum / float64(len(months))
	r.AvgPunctualityRate = punctualitySum / float64(len(months))
	return r
}
