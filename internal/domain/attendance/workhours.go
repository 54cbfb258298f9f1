package attendance

import (
	"fmt"
	"time"
)

// UndoWindow is how long after checkout the checkout can still be reversed.
// The boundary is inclusive: an undo exactly at the window edge succeeds.
const UndoWindow = 10 * time.Minute

// CanUndoCheckout reports whether the record's checkout may be reversed at
// the given instant.
func (a *Attendance) CanUndoCheckout(now time.Time) bool {
	if a.CheckOut == nil {
		return false
	}
	return now.Sub(*a.CheckOut) <= UndoWindow
}

// WorkedMinutes returns the break-adjusted duration in whole minutes and
// whether the day is finished. An open day reports (0, false). Break time
// exceeding the elapsed span clamps to zero rather than going negative.
func WorkedMinutes(checkIn time.Time, checkOut *time.Time, breakMinutes int) (int, bool) {
	if checkOut == nil {
		return 0, false
	}
	minutes := int(checkOut.Sub(checkIn).Minutes()) - breakMinutes
	if minutes < 0 {
		minutes = 0
	}
	return minutes, true
}

// FormatWorkHours renders the derived duration for display: "In progress"
// while the day is open, otherwise "Xh Ym".
func FormatWorkHours(checkIn *time.Time, checkOut *time.Time, breakMinutes int) string {
	if checkIn == nil {
		return "-"
	}
	total, done := WorkedMinutes(*checkIn, checkOut, breakMinutes)
	if !done {
		return "In progress"
	}
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// BreakMinutes returns the floored length of a closed break window.
func BreakMinutes(start, end time.Time) int {
	minutes := int(end.Sub(start).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}
