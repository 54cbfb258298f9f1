package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in conflicts. The two cases are deliberately distinct so the
	// client can tell an open day from a finished one.
	ErrAlreadyCheckedIn = errors.New("you are already checked in for today")
	ErrAlreadyCompleted = errors.New("today's attendance is already completed")

	// Break / checkout preconditions
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrAlreadyOnBreak    = errors.New("a break is already in progress")
	ErrBreakAlreadyTaken = errors.New("today's break has already been taken")
	ErrNotOnBreak        = errors.New("no break is in progress")

	// Undo checkout
	ErrNothingToUndo     = errors.New("no checkout to undo")
	ErrUndoWindowExpired = errors.New("undo window expired")

	// General
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
