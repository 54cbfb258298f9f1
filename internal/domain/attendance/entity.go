package attendance

import (
	"time"
)

// Status classifies a day record.
type Status string

const (
	StatusPresent    Status = "present"
	StatusAbsent     Status = "absent"
	StatusLate       Status = "late"
	StatusEarlyLeave Status = "early_leave"
	StatusHalfDay    Status = "half_day"
	StatusHoliday    Status = "holiday"
	StatusSickLeave  Status = "sick_leave"
	StatusVacation   Status = "vacation"
	StatusRemote     Status = "remote"
)

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusPresent, StatusAbsent, StatusLate, StatusEarlyLeave,
		StatusHalfDay, StatusHoliday, StatusSickLeave, StatusVacation, StatusRemote:
		return true
	}
	return false
}

// WorkMode records where the day was worked.
type WorkMode string

const (
	WorkModeOffice WorkMode = "office"
	WorkModeRemote WorkMode = "remote"
	WorkModeHybrid WorkMode = "hybrid"
	WorkModeField  WorkMode = "field"
)

func IsValidWorkMode(s string) bool {
	switch WorkMode(s) {
	case WorkModeOffice, WorkModeRemote, WorkModeHybrid, WorkModeField:
		return true
	}
	return false
}

// Attendance is the single record per (user, calendar date). CheckIn is set
// on creation by the normal flow; only admin writes may produce a record
// without it.
type Attendance struct {
	ID                string
	UserID            string
	Date              time.Time
	CheckIn           *time.Time
	CheckOut          *time.Time
	BreakStart        *time.Time
	BreakEnd          *time.Time
	TotalBreakMinutes int
	Status            Status
	WorkMode          WorkMode
	LocationName      *string
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined for manager/admin listings
	FullName *string
}

// IsComplete reports whether the day has been checked out.
func (a *Attendance) IsComplete() bool {
	return a.CheckOut != nil
}

// OnBreak reports whether a break is currently open.
func (a *Attendance) OnBreak() bool {
	return a.BreakStart != nil && a.BreakEnd == nil
}

// BreakTaken reports whether the day's single break window has already
// been used.
func (a *Attendance) BreakTaken() bool {
	return a.BreakStart != nil && a.BreakEnd != nil
}
