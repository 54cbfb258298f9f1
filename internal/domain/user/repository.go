package user

import "context"

type UserRepository interface {
	// Create inserts a new account and returns it with generated fields set.
	Create(ctx context.Context, user User) (User, error)

	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail returns ErrUserNotFound when no account matches.
	GetByEmail(ctx context.Context, email string) (User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// UpdatePassword replaces the stored hash. Returns ErrUserNotFound when
	// no account matches.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
