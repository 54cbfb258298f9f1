package profile

import (
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/user"
)

// Profile holds the HR-facing data for an account. ID matches the auth
// user ID one-to-one.
type Profile struct {
	ID           string
	FullName     *string
	EmployeeID   *string
	Department   *string
	Position     *string
	Role         user.Role
	WorkSchedule *string
	Timezone     *string
	Phone        *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined from users for listings
	Email *string
}
