package user

import (
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

type CreateUserRequest struct {
	Email    string  `json:"email"`
	FullName *string `json:"full_name,omitempty"`
	Role     string  `json:"role"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	} else if !IsValidRole(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: employee, assistant, manager, admin",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CreateUserResult carries the new account ID and the generated temporary
// password. The password is surfaced once and never stored in plain text.
type CreateUserResult struct {
	UserID       string `json:"user_id"`
	TempPassword string `json:"temp_password,omitempty"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (r *UpdateRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !IsValidRole(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: employee, assistant, manager, admin",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
