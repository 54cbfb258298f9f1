package profile

import (
	"context"

	"github.com/attendly/attendance-backend-go/internal/domain/user"
)

// ProfileService covers self-service profile reads and edits.
type ProfileService interface {
	GetMyProfile(ctx context.Context, userID string) (Profile, error)
	UpdateMyProfile(ctx context.Context, userID string, req UpdateProfileRequest) (Profile, error)
}

// UserService covers admin user provisioning and role assignment. It lives
// here rather than in the user domain because its read surface is profiles;
// the user domain must stay importable from this package for Role.
type UserService interface {
	// CreateUser creates an auth account plus its profile row with the
	// requested role. Admin only; the caller is identified from the session.
	CreateUser(ctx context.Context, req user.CreateUserRequest) (user.CreateUserResult, error)

	// ListUsers returns all profiles, newest first.
	ListUsers(ctx context.Context, filter ListFilter) ([]Profile, int64, error)

	// UpdateRole changes the role on a user's profile.
	UpdateRole(ctx context.Context, userID string, req user.UpdateRoleRequest) (Profile, error)

	// SetActive toggles a user's active flag.
	SetActive(ctx context.Context, userID string, active bool) (Profile, error)
}
