package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/auth"
	"github.com/attendly/attendance-backend-go/internal/domain/profile"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly/attendance-backend-go/internal/pkg/oauth"
	"golang.org/x/crypto/bcrypt"
)

// oauthStateTTL bounds how long a pending OAuth flow stays valid.
const oauthStateTTL = 10 * time.Minute

type AuthServiceImpl struct {
	user.UserRepository
	profile.ProfileRepository
	auth.SessionRepository
	jwtService    jwt.Service
	googleService oauth.GoogleService

	stateMu       sync.Mutex
	pendingStates map[string]time.Time

	now func() time.Time
}

func NewAuthService(
	userRepo user.UserRepository,
	profileRepo profile.ProfileRepository,
	sessionRepo auth.SessionRepository,
	jwtService jwt.Service,
	googleService oauth.GoogleService,
) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:    userRepo,
		ProfileRepository: profileRepo,
		SessionRepository: sessionRepo,
		jwtService:        jwtService,
		googleService:     googleService,
		pendingStates:     make(map[string]time.Time),
		now:               time.Now,
	}
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	account, err := s.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to load user: %w", err)
	}

	if account.PasswordHash == nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, account, session)
}

// RefreshToken implements auth.AuthService. The presented token is revoked
// and replaced in one step.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string, session auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	userID, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	hash := hashToken(refreshToken)
	stored, err := s.SessionRepository.GetByTokenHash(ctx, hash)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	if stored.UserID != userID {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	if stored.ExpiresAt.Before(s.now()) {
		return auth.LoginResponse{}, auth.ErrTokenExpired
	}

	if err := s.SessionRepository.Revoke(ctx, hash); err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	account, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to load user: %w", err)
	}

	return s.issueTokens(ctx, account, session)
}

// Logout implements auth.AuthService. Unknown tokens are a no-op so logout
// is idempotent.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.SessionRepository.Revoke(ctx, hashToken(refreshToken))
}

// ChangePassword implements auth.AuthService. Every open session is revoked
// after the change.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID string, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	account, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if account.PasswordHash == nil {
		return auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return auth.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.UserRepository.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	return s.SessionRepository.RevokeAllForUser(ctx, userID)
}

// LoginWithGoogle implements auth.AuthService.
func (s *AuthServiceImpl) LoginWithGoogle(ctx context.Context, userAgent string) (string, error) {
	state := s.googleService.GenerateState(userAgent)
	if state == "" {
		return "", fmt.Errorf("failed to generate oauth state")
	}

	s.stateMu.Lock()
	s.pendingStates[state] = s.now().Add(oauthStateTTL)
	s.stateMu.Unlock()

	return s.googleService.RedirectURL(state), nil
}

// OAuthCallbackGoogle implements auth.AuthService.
func (s *AuthServiceImpl) OAuthCallbackGoogle(ctx context.Context, state string, code string, session auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	if !s.consumeState(state) {
		return auth.LoginResponse{}, auth.ErrOAuthStateMismatch
	}

	token, err := s.googleService.Exchange(ctx, code)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	googleAccount, err := s.googleService.FetchUser(ctx, token)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to fetch google account: %w", err)
	}

	// Accounts are provisioned by admins; an unknown Google email cannot
	// self-register.
	account, err := s.UserRepository.GetByEmail(ctx, googleAccount.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to load user: %w", err)
	}

	return s.issueTokens(ctx, account, session)
}

func (s *AuthServiceImpl) consumeState(state string) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	now := s.now()
	for st, expiry := range s.pendingStates {
		if expiry.Before(now) {
			delete(s.pendingStates, st)
		}
	}

	expiry, ok := s.pendingStates[state]
	if !ok || expiry.Before(now) {
		return false
	}
	delete(s.pendingStates, state)
	return true
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, account user.User, session auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	role, err := s.ProfileRepository.GetRole(ctx, account.ID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return auth.LoginResponse{}, user.ErrUserInactive
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to load role: %w", err)
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(account.ID, account.Email, user.Role(role))
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(account.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	newSession := auth.Session{
		UserID:    account.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Unix(refreshExpiresAt, 0),
	}
	if session.UserAgent != "" {
		newSession.UserAgent = &session.UserAgent
	}
	if session.IPAddress != "" {
		newSession.IPAddress = &session.IPAddress
	}

	if _, err := s.SessionRepository.Create(ctx, newSession); err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to persist session: %w", err)
	}

	return auth.LoginResponse{
		AccessToken:      accessToken,
		ExpiresAt:        expiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
		UserID:           account.ID,
		Role:             role,
	}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(sum[:])
}
