package profile

import (
	"time"

	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// UpdateProfileRequest carries the self-service fields. Role, activation and
// employee identifiers change only through admin operations.
type UpdateProfileRequest struct {
	FullName     *string `json:"full_name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Timezone     *string `json:"timezone,omitempty"`
	WorkSchedule *string `json:"work_schedule,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not be blank",
		})
	}

	if r.Timezone != nil {
		if _, err := time.LoadLocation(*r.Timezone); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "timezone",
				Message: "timezone must be a valid IANA zone name",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ProfileResponse struct {
	ID           string  `json:"id"`
	Email        *string `json:"email,omitempty"`
	FullName     *string `json:"full_name"`
	EmployeeID   *string `json:"employee_id"`
	Department   *string `json:"department"`
	Position     *string `json:"position"`
	Role         string  `json:"role"`
	WorkSchedule *string `json:"work_schedule"`
	Timezone     *string `json:"timezone"`
	Phone        *string `json:"phone"`
	IsActive     bool    `json:"is_active"`
}

// ToResponse maps the entity to its API shape.
func ToResponse(p Profile) ProfileResponse {
	return ProfileResponse{
		ID:           p.ID,
		Email:        p.Email,
		FullName:     p.FullName,
		EmployeeID:   p.EmployeeID,
		Department:   p.Department,
		Position:     p.Position,
		Role:         string(p.Role),
		WorkSchedule: p.WorkSchedule,
		Timezone:     p.Timezone,
		Phone:        p.Phone,
		IsActive:     p.IsActive,
	}
}
