package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := ts.Issue(userID, "alice", "alice@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestVerifyExpiredTokenIsDistinctFromInvalid(t *testing.T) {
	ts := NewTokenService("test-secret", -time.Minute)

	token, err := ts.Issue(uuid.New(), "alice", "alice@x.com")
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTamperedToken(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)

	token, err := ts.Issue(uuid.New(), "alice", "alice@x.com")
	require.NoError(t, err)

	// Signed with a different secret
	other := NewTokenService("other-secret", time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ts.Verify(token + "garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ts.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyMissingToken(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)

	_, err := ts.Verify("")
	assert.ErrorIs(t, err, ErrNoToken)
}
