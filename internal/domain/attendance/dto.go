package attendance

import (
	"time"

	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

type CheckInRequest struct {
	WorkMode     *string `json:"work_mode,omitempty"`
	LocationName *string `json:"location_name,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.WorkMode != nil && !IsValidWorkMode(*r.WorkMode) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_mode",
			Message: "work_mode must be one of: office, remote, hybrid, field",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	FullName          *string `json:"full_name,omitempty"`
	Date              string  `json:"date"`
	CheckIn           *string `json:"check_in"`
	CheckOut          *string `json:"check_out"`
	BreakStart        *string `json:"break_start"`
	BreakEnd          *string `json:"break_end"`
	TotalBreakMinutes int     `json:"total_break_minutes"`
	Status            string  `json:"status"`
	WorkMode          string  `json:"work_mode"`
	LocationName      *string `json:"location_name"`
	Notes             *string `json:"notes"`
	WorkHours         string  `json:"work_hours"`
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

// ToResponse maps the entity to its API shape, deriving the work-hours
// display value.
func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:                a.ID,
		UserID:            a.UserID,
		FullName:          a.FullName,
		Date:              a.Date.Format("2006-01-02"),
		CheckIn:           timePtrToString(a.CheckIn),
		CheckOut:          timePtrToString(a.CheckOut),
		BreakStart:        timePtrToString(a.BreakStart),
		BreakEnd:          timePtrToString(a.BreakEnd),
		TotalBreakMinutes: a.TotalBreakMinutes,
		Status:            string(a.Status),
		WorkMode:          string(a.WorkMode),
		LocationName:      a.LocationName,
		Notes:             a.Notes,
		WorkHours:         FormatWorkHours(a.CheckIn, a.CheckOut, a.TotalBreakMinutes),
	}
}

type HistoryFilter struct {
	StartDate *string
	EndDate   *string
	Limit     int
	Offset    int
}

// DefaultHistoryLimit caps history reads when the caller does not pass one.
const DefaultHistoryLimit = 200

func (f *HistoryFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = DefaultHistoryLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// AttendancePatch is the admin override payload. Set fields update; names in
// Clear are forced back to NULL. Admin writes bypass the transition guards
// entirely.
type AttendancePatch struct {
	CheckIn           *string `json:"check_in,omitempty"`
	CheckOut          *string `json:"check_out,omitempty"`
	BreakStart        *string `json:"break_start,omitempty"`
	BreakEnd          *string `json:"break_end,omitempty"`
	TotalBreakMinutes *int    `json:"total_break_minutes,omitempty"`
	Status            *string `json:"status,omitempty"`
	WorkMode          *string `json:"work_mode,omitempty"`
	LocationName      *string `json:"location_name,omitempty"`
	Notes             *string `json:"notes,omitempty"`

	Clear []string `json:"clear,omitempty"`
}

var clearableFields = []string{
	"check_in", "check_out", "break_start", "break_end", "location_name", "notes",
}

// IsEmpty reports whether the patch changes nothing.
func (p *AttendancePatch) IsEmpty() bool {
	return p.CheckIn == nil && p.CheckOut == nil && p.BreakStart == nil &&
		p.BreakEnd == nil && p.TotalBreakMinutes == nil && p.Status == nil &&
		p.WorkMode == nil && p.LocationName == nil && p.Notes == nil &&
		len(p.Clear) == 0
}

func (p *AttendancePatch) Validate() error {
	var errs validator.ValidationErrors

	for field, value := range map[string]*string{
		"check_in":    p.CheckIn,
		"check_out":   p.CheckOut,
		"break_start": p.BreakStart,
		"break_end":   p.BreakEnd,
	} {
		if value == nil {
			continue
		}
		if _, ok := validator.IsValidDateTime(*value); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be an RFC3339 timestamp",
			})
		}
	}

	if p.TotalBreakMinutes != nil && *p.TotalBreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "total_break_minutes",
			Message: "total_break_minutes must be >= 0",
		})
	}

	if p.Status != nil && !IsValidStatus(*p.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is not a recognized value",
		})
	}

	if p.WorkMode != nil && !IsValidWorkMode(*p.WorkMode) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_mode",
			Message: "work_mode must be one of: office, remote, hybrid, field",
		})
	}

	for _, name := range p.Clear {
		if !validator.IsInSlice(name, clearableFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "clear",
				Message: "field " + name + " cannot be cleared",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdminUpsertRequest struct {
	UserID string          `json:"user_id"`
	Date   string          `json:"date"`
	Patch  AttendancePatch `json:"patch"`
}

func (r *AdminUpsertRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must use the YYYY-MM-DD format",
		})
	}

	if r.Patch.IsEmpty() {
		errs = append(errs, validator.ValidationError{
			Field:   "patch",
			Message: "patch is required",
		})
	} else if err := r.Patch.Validate(); err != nil {
		if patchErrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, patchErrs...)
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdminDeleteRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
}

func (r *AdminDeleteRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must use the YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
