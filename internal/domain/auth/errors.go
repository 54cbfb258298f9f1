package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or missing token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrOAuthStateMismatch  = errors.New("oauth state mismatch")
)
