package auth

import (
	"context"
	"time"
)

// Session is one issued refresh token. Only a SHA-256 hash of the token is
// stored.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	UserAgent *string
	IPAddress *string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// SessionRepository persists refresh-token sessions so revocation survives
// process restarts.
type SessionRepository interface {
	Create(ctx context.Context, s Session) (Session, error)

	// GetByTokenHash returns ErrRefreshTokenRevoked for revoked or expired
	// sessions and ErrInvalidToken when no session matches.
	GetByTokenHash(ctx context.Context, tokenHash string) (Session, error)

	Revoke(ctx context.Context, tokenHash string) error

	// RevokeAllForUser invalidates every session, used on password change.
	RevokeAllForUser(ctx context.Context, userID string) error

	// DeleteExpired clears rows past their expiry. Run by the scheduler.
	DeleteExpired(ctx context.Context) (int64, error)
}
