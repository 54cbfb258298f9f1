package auth

import "context"

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (LoginResponse, error)

	// RefreshToken rotates the refresh token and issues a new access token.
	RefreshToken(ctx context.Context, refreshToken string, session SessionTrackingRequest) (LoginResponse, error)

	Logout(ctx context.Context, refreshToken string) error

	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error

	// LoginWithGoogle returns the provider redirect URL for the OAuth flow.
	LoginWithGoogle(ctx context.Context, userAgent string) (redirectURL string, err error)

	// OAuthCallbackGoogle completes the flow; the Google account email must
	// already map to a provisioned user.
	OAuthCallbackGoogle(ctx context.Context, state string, code string, session SessionTrackingRequest) (LoginResponse, error)
}
