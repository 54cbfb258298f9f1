package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollup(t *testing.T) {
	months := []Summary{
		{
			PresentDays:     20,
			AbsentDays:      1,
			LateDays:        2,
			LeaveDays:       1,
			TotalWorkHours:  160,
			OvertimeHours:   4,
			AttendanceRate:  95,
			PunctualityRate: 90,
		},
		{
			PresentDays:     18,
			AbsentDays:      2,
			LateDays:        0,
			LeaveDays:       2,
			TotalWorkHours:  144,
			OvertimeHours:   0,
			AttendanceRate:  85,
			PunctualityRate: 100,
		},
	}

	got := Rollup("user-1", 2024, months)

	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, 2, got.MonthsCounted)
	assert.Equal(t, 38, got.PresentDays)
	assert.Equal(t, 3, got.AbsentDays)
	assert.Equal(t, 2, got.LateDays)
	assert.Equal(t, 3, got.LeaveDays)
	assert.InDelta(t, 304, got.TotalWorkHours, 0.001)
	assert.InDelta(t, 4, got.OvertimeHours, 0.001)
	assert.InDelta(t, 90, got.AvgAttendanceRate, 0.001)
	assert.InDelta(t, 95, got.AvgPunctualityRate, 0.001)
}

func TestRollup_NoMonths(t *testing.T) {
	got := Rollup("user-1", 2024, nil)

	assert.Equal(t, 0, got.MonthsCounted)
	assert.Zero(t, got.AvgAttendanceRate)
	assert.Zero(t, got.AvgPunctualityRate)
}
