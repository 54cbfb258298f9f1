package user

import "time"

type Role string

const (
	RoleEmployee  Role = "employee"  // Regular employee
	RoleAssistant Role = "assistant" // Same ceiling as employee
	RoleManager   Role = "manager"   // Can read any attendance, decide leave
	RoleAdmin     Role = "admin"     // Full access including user provisioning
)

// AllRoles returns every assignable role.
func AllRoles() []Role {
	return []Role{RoleEmployee, RoleAssistant, RoleManager, RoleAdmin}
}

// IsValidRole reports whether s names a known role.
func IsValidRole(s string) bool {
	switch Role(s) {
	case RoleEmployee, RoleAssistant, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// IsAdmin checks if the role carries admin privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsManager checks if the role is manager or admin.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleAdmin
}

// CanApprove checks if the role may decide leave requests.
func (r Role) CanApprove() bool {
	return r.IsManager()
}

// User is an authentication account. Profile data lives in the profile
// domain and shares the same ID.
type User struct {
	ID              string
	Email           string
	PasswordHash    *string
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
