package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/attendly/attendance-backend-go/internal/domain/auth"
	"github.com/attendly/attendance-backend-go/internal/domain/profile"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly/attendance-backend-go/internal/pkg/oauth"
)

type fakeUserRepo struct {
	users     map[string]user.User
	passwords map[string]string
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id string, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = &hash
	f.users[id] = u
	return nil
}

type fakeProfileRepo struct {
	roles map[string]string
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p profile.Profile) (profile.Profile, error) {
	return p, nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, _ string) (profile.Profile, error) {
	return profile.Profile{}, profile.ErrProfileNotFound
}

func (f *fakeProfileRepo) GetRole(_ context.Context, id string) (string, error) {
	role, ok := f.roles[id]
	if !ok {
		return "", profile.ErrProfileNotFound
	}
	return role, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p profile.Profile) (profile.Profile, error) {
	return p, nil
}

func (f *fakeProfileRepo) List(_ context.Context, _ profile.ListFilter) ([]profile.Profile, int64, error) {
	return nil, 0, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]auth.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]auth.Session)}
}

func (f *fakeSessionRepo) Create(_ context.Context, s auth.Session) (auth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = s.TokenHash
	f.sessions[s.TokenHash] = s
	return s, nil
}

func (f *fakeSessionRepo) GetByTokenHash(_ context.Context, hash string) (auth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[hash]
	if !ok {
		return auth.Session{}, auth.ErrInvalidToken
	}
	if s.RevokedAt != nil {
		return auth.Session{}, auth.ErrRefreshTokenRevoked
	}
	return s, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[hash]; ok {
		now := time.Now()
		s.RevokedAt = &now
		f.sessions[hash] = s
	}
	return nil
}

func (f *fakeSessionRepo) RevokeAllForUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for hash, s := range f.sessions {
		if s.UserID == userID {
			s.RevokedAt = &now
			f.sessions[hash] = s
		}
	}
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(_ context.Context) (int64, error) { return 0, nil }

func (f *fakeSessionRepo) active(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int
	for _, s := range f.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			n++
		}
	}
	return n
}

type fakeGoogleService struct {
	email string
}

func (f *fakeGoogleService) GenerateState(string) string { return "state-123" }
func (f *fakeGoogleService) RedirectURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}
func (f *fakeGoogleService) Exchange(context.Context, string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "google-token"}, nil
}
func (f *fakeGoogleService) FetchUser(context.Context, *oauth2.Token) (oauth.GoogleAccount, error) {
	return oauth.GoogleAccount{GoogleID: "g-1", Email: f.email, VerifiedEmail: true}, nil
}

type authFixture struct {
	svc      *AuthServiceImpl
	users    *fakeUserRepo
	sessions *fakeSessionRepo
}

func newFixture(t *testing.T) *authFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	users := &fakeUserRepo{users: map[string]user.User{
		"user-1": {ID: "user-1", Email: "dana@example.com", PasswordHash: &hashStr},
	}}
	profiles := &fakeProfileRepo{roles: map[string]string{"user-1": "employee"}}
	sessions := newFakeSessionRepo()

	f := &authFixture{users: users, sessions: sessions}
	f.svc = &AuthServiceImpl{
		UserRepository:    users,
		ProfileRepository: profiles,
		SessionRepository: sessions,
		jwtService:        jwt.NewJWTService("test-secret", "15m", "720h"),
		googleService:     &fakeGoogleService{email: "dana@example.com"},
		pendingStates:     make(map[string]time.Time),
		now:               time.Now,
	}
	return f
}

func login(t *testing.T, f *authFixture) auth.LoginResponse {
	t.Helper()

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{
		Email:    "dana@example.com",
		Password: "correct horse",
	}, auth.SessionTrackingRequest{UserAgent: "tests", IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	return resp
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	resp := login(t, f)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, "employee", resp.Role)
	assert.Equal(t, 1, f.sessions.active("user-1"))
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{
		Email:    "dana@example.com",
		Password: "wrong",
	}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse",
	}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_NoProfile(t *testing.T) {
	f := newFixture(t)
	noHash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(noHash)
	f.users.users["user-2"] = user.User{ID: "user-2", Email: "ghost@example.com", PasswordHash: &hashStr}

	_, err = f.svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ghost@example.com",
		Password: "pw123456",
	}, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, user.ErrUserInactive)
}

func TestRefreshToken_RotatesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := login(t, f)

	// Tokens minted within the same second carry identical claims and
	// collapse to one session row, so step past the second boundary.
	time.Sleep(1100 * time.Millisecond)

	resp, err := f.svc.RefreshToken(ctx, first.RefreshToken, auth.SessionTrackingRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, 1, f.sessions.active("user-1"))

	// The old token was revoked by the rotation.
	_, err = f.svc.RefreshToken(ctx, first.RefreshToken, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshToken_Garbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RefreshToken(context.Background(), "not-a-jwt", auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp := login(t, f)

	require.NoError(t, f.svc.Logout(ctx, resp.RefreshToken))
	assert.Equal(t, 0, f.sessions.active("user-1"))

	// Logging out twice, or with no cookie at all, is a no-op.
	require.NoError(t, f.svc.Logout(ctx, resp.RefreshToken))
	require.NoError(t, f.svc.Logout(ctx, ""))
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	login(t, f)
	require.Equal(t, 1, f.sessions.active("user-1"))

	err := f.svc.ChangePassword(ctx, "user-1", auth.ChangePasswordRequest{
		CurrentPassword: "correct horse",
		NewPassword:     "battery staple",
	})
	require.NoError(t, err)

	// Every open session is revoked and the new password works.
	assert.Equal(t, 0, f.sessions.active("user-1"))
	_, err = f.svc.Login(ctx, auth.LoginRequest{
		Email:    "dana@example.com",
		Password: "battery staple",
	}, auth.SessionTrackingRequest{})
	assert.NoError(t, err)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	f := newFixture(t)

	err := f.svc.ChangePassword(context.Background(), "user-1", auth.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "battery staple",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestOAuthCallbackGoogle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	redirect, err := f.svc.LoginWithGoogle(ctx, "tests")
	require.NoError(t, err)
	assert.Contains(t, redirect, "state-123")

	resp, err := f.svc.OAuthCallbackGoogle(ctx, "state-123", "code", auth.SessionTrackingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.UserID)

	// The state is single use.
	_, err = f.svc.OAuthCallbackGoogle(ctx, "state-123", "code", auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrOAuthStateMismatch)
}

func TestOAuthCallbackGoogle_UnknownState(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.OAuthCallbackGoogle(context.Background(), "forged", "code", auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrOAuthStateMismatch)
}

func TestOAuthCallbackGoogle_UnprovisionedEmail(t *testing.T) {
	f := newFixture(t)
	f.svc.googleService = &fakeGoogleService{email: "stranger@example.com"}
	ctx := context.Background()

	_, err := f.svc.LoginWithGoogle(ctx, "tests")
	require.NoError(t, err)

	_, err = f.svc.OAuthCallbackGoogle(ctx, "state-123", "code", auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestOAuthState_Expires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Now()
	f.svc.now = func() time.Time { return base }
	_, err := f.svc.LoginWithGoogle(ctx, "tests")
	require.NoError(t, err)

	f.svc.now = func() time.Time { return base.Add(oauthStateTTL + time.Second) }
	_, err = f.svc.OAuthCallbackGoogle(ctx, "state-123", "code", auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrOAuthStateMismatch)
}
