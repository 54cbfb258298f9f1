package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-backend-go/internal/domain/profile"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
)

type fakeProfileRepo struct {
	roles   map[string]string
	roleErr error
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p profile.Profile) (profile.Profile, error) {
	return p, nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, _ string) (profile.Profile, error) {
	return profile.Profile{}, profile.ErrProfileNotFound
}

func (f *fakeProfileRepo) GetRole(_ context.Context, id string) (string, error) {
	if f.roleErr != nil {
		return "", f.roleErr
	}
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

var testAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

func signToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()

	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	_, tokenString, err := testAuth.Encode(claims)
	require.NoError(t, err)
	return tokenString
}

func doRequest(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	jwtauth.Verifier(testAuth)(handler).ServeHTTP(rec, req)
	return rec
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestAuthRequired(t *testing.T) {
	next, called := okHandler()
	handler := AuthRequired(testAuth)(next)

	rec := doRequest(handler, signToken(t, map[string]interface{}{
		"user_id": "user-1",
		"type":    "access",
	}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestAuthRequired_NoToken(t *testing.T) {
	next, called := okHandler()
	handler := AuthRequired(testAuth)(next)

	rec := doRequest(handler, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestAuthRequired_WrongTokenType(t *testing.T) {
	next, called := okHandler()
	handler := AuthRequired(testAuth)(next)

	// Refresh and SSE tokens must not open authenticated routes.
	for _, tokenType := range []string{"refresh", "sse"} {
		rec := doRequest(handler, signToken(t, map[string]interface{}{
			"user_id": "user-1",
			"type":    tokenType,
		}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	assert.False(t, *called)
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	next, called := okHandler()
	handler := AuthRequired(testAuth)(next)

	rec := doRequest(handler, signToken(t, map[string]interface{}{
		"user_id": "user-1",
		"type":    "access",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestRequireAdmin(t *testing.T) {
	roles := NewRoleMiddleware(&fakeProfileRepo{roles: map[string]string{
		"admin-1":   "admin",
		"manager-1": "manager",
	}})

	tests := []struct {
		name     string
		userID   string
		wantCode int
	}{
		{"admin passes", "admin-1", http.StatusOK},
		{"manager rejected", "manager-1", http.StatusForbidden},
		{"unknown user rejected", "ghost", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := okHandler()
			rec := doRequest(roles.RequireAdmin(next), signToken(t, map[string]interface{}{
				"user_id": tt.userID,
				"type":    "access",
			}))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequireManager(t *testing.T) {
	roles := NewRoleMiddleware(&fakeProfileRepo{roles: map[string]string{
		"admin-1":    "admin",
		"manager-1":  "manager",
		"employee-1": "employee",
	}})

	tests := []struct {
		name     string
		userID   string
		wantCode int
	}{
		{"manager passes", "manager-1", http.StatusOK},
		{"admin passes", "admin-1", http.StatusOK},
		{"employee rejected", "employee-1", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := okHandler()
			rec := doRequest(roles.RequireManager(next), signToken(t, map[string]interface{}{
				"user_id": tt.userID,
				"type":    "access",
			}))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequireManager_IgnoresStaleRoleClaim(t *testing.T) {
	// The token still claims manager but the profile row was demoted.
	roles := NewRoleMiddleware(&fakeProfileRepo{roles: map[string]string{
		"user-1": "employee",
	}})

	next, called := okHandler()
	rec := doRequest(roles.RequireManager(next), signToken(t, map[string]interface{}{
		"user_id": "user-1",
		"role":    "manager",
		"type":    "access",
	}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *called)
}

func TestRoleLookupOutage_IsNotADenial(t *testing.T) {
	// A failing profiles query must surface as a server error, not a 403,
	// so an outage is never mistaken for a revoked role.
	roles := NewRoleMiddleware(&fakeProfileRepo{roleErr: errors.New("connection refused")})
	token := signToken(t, map[string]interface{}{
		"user_id": "admin-1",
		"type":    "access",
	})

	for name, wrap := range map[string]func(http.Handler) http.Handler{
		"admin":      roles.RequireAdmin,
		"manager":    roles.RequireManager,
		"permission": roles.RequirePermission(user.PermissionLeaveApprove),
	} {
		t.Run(name, func(t *testing.T) {
			next, called := okHandler()
			rec := doRequest(wrap(next), token)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.False(t, *called)
		})
	}
}

func TestRequirePermission(t *testing.T) {
	roles := NewRoleMiddleware(&fakeProfileRepo{roles: map[string]string{
		"manager-1":  "manager",
		"employee-1": "employee",
	}})

	next, _ := okHandler()
	handler := roles.RequirePermission(user.PermissionLeaveApprove)(next)

	rec := doRequest(handler, signToken(t, map[string]interface{}{
		"user_id": "manager-1",
		"type":    "access",
	}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(handler, signToken(t, map[string]interface{}{
		"user_id": "employee-1",
		"type":    "access",
	}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserIDFromContext(t *testing.T) {
	var gotID string
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserIDFromContext(r)
	})

	doRequest(next, signToken(t, map[string]interface{}{
		"user_id": "user-1",
		"type":    "access",
	}))

	assert.True(t, gotOK)
	assert.Equal(t, "user-1", gotID)
}
