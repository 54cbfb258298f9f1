package profile

import "context"

type ListFilter struct {
	Role     *string
	IsActive *bool
	Limit    int
	Offset   int
}

type ProfileRepository interface {
	// Upsert inserts or replaces the profile row keyed by ID.
	Upsert(ctx context.Context, p Profile) (Profile, error)

	// GetByID returns ErrProfileNotFound when no row matches.
	GetByID(ctx context.Context, id string) (Profile, error)

	// GetRole reads only the role column. Used by the authorization
	// middleware so privileged routes never trust a stale claim.
	GetRole(ctx context.Context, id string) (string, error)

	Update(ctx context.Context, p Profile) (Profile, error)

	List(ctx context.Context, filter ListFilter) ([]Profile, int64, error)
}
