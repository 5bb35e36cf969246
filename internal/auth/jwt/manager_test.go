package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklog/worklog-backend/pkg/config"
	"github.com/worklog/worklog-backend/pkg/errors"
)

func testManager(accessExpiry time.Duration) *Manager {
	return NewManager(&config.JWTConfig{
		Secret:        "test-secret-key-for-unit-tests",
		AccessExpiry:  accessExpiry,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "worklog-test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	m := testManager(15 * time.Minute)

	user := &UserInfo{
		ID:           "user-1",
		Username:     "alice",
		Role:         "department_admin",
		DepartmentID: "dept-1",
	}

	pair, err := m.GenerateTokenPair(user, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "department_admin", claims.Role)
	assert.Equal(t, "dept-1", claims.DepartmentID)

	refreshClaims, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refreshClaims.UserID)
	assert.Equal(t, "session-1", refreshClaims.SessionID)
}

func TestValidateAccessTokenExpired(t *testing.T) {
	m := testManager(-1 * time.Minute)

	pair, err := m.GenerateTokenPair(&UserInfo{ID: "user-1", Username: "alice", Role: "member"}, "s1")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTokenExpired))
}

func TestValidateAccessTokenTampered(t *testing.T) {
	m := testManager(15 * time.Minute)

	pair, err := m.GenerateTokenPair(&UserInfo{ID: "user-1", Username: "alice", Role: "member"}, "s1")
	require.NoError(t, err)

	other := NewManager(&config.JWTConfig{
		Secret:        "a-different-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "worklog-test",
	})

	_, err = other.ValidateAccessToken(pair.AccessToken)
	require.Error(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken + "x")
	require.Error(t, err)
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	m := testManager(15 * time.Minute)

	pair, err := m.GenerateTokenPair(&UserInfo{ID: "user-1", Username: "alice", Role: "member"}, "s1")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(pair.RefreshToken)
	if err == nil {
		// Parsing may succeed structurally but the user claims must be absent
		assert.Empty(t, claims.Username)
	}
}
