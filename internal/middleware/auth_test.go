package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scribbly/internal/auth"
)

func guardedHandler(t *testing.T, ts *auth.TokenService) (http.Handler, *auth.Claims) {
	t.Helper()
	var seen auth.Claims
	handler := RequireToken(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaimsFromContext(r.Context())
		require.True(t, ok)
		seen = *claims
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seen
}

func TestRequireTokenAcceptsQueryParameter(t *testing.T) {
	ts := auth.NewTokenService("secret", time.Hour)
	userID := uuid.New()
	token, err := ts.Issue(userID, "alice", "alice@x.com")
	require.NoError(t, err)

	handler, seen := guardedHandler(t, ts)

	req := httptest.NewRequest("POST", "/api/posts/create?token="+token, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, seen.UserID)
	assert.Equal(t, "alice", seen.Username)
}

func TestRequireTokenAcceptsCookieFallback(t *testing.T) {
	ts := auth.NewTokenService("secret", time.Hour)
	token, err := ts.Issue(uuid.New(), "alice", "alice@x.com")
	require.NoError(t, err)

	handler, _ := guardedHandler(t, ts)

	req := httptest.NewRequest("POST", "/api/posts/create", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireTokenRejectsMissingToken(t *testing.T) {
	ts := auth.NewTokenService("secret", time.Hour)
	handler, _ := guardedHandler(t, ts)

	req := httptest.NewRequest("POST", "/api/posts/create", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No token provided")
}

func TestRequireTokenRejectsInvalidToken(t *testing.T) {
	ts := auth.NewTokenService("secret", time.Hour)
	handler, _ := guardedHandler(t, ts)

	req := httptest.NewRequest("POST", "/api/posts/create?token=garbage", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestRequireTokenReportsExpiryDistinctly(t *testing.T) {
	expired := auth.NewTokenService("secret", -time.Minute)
	token, err := expired.Issue(uuid.New(), "alice", "alice@x.com")
	require.NoError(t, err)

	handler, _ := guardedHandler(t, auth.NewTokenService("secret", time.Hour))

	req := httptest.NewRequest("POST", "/api/posts/create?token="+token, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}
