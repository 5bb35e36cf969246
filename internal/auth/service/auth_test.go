package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/worklog/worklog-backend/internal/auth/jwt"
	"github.com/worklog/worklog-backend/internal/auth/repository"
	"github.com/worklog/worklog-backend/internal/identity/domain"
	"github.com/worklog/worklog-backend/pkg/config"
	"github.com/worklog/worklog-backend/pkg/database"
	"github.com/worklog/worklog-backend/pkg/errors"
	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/testutil"
)

type fakeDirectory struct {
	byUsername map[string]*domain.Profile
	byID       map[string]*domain.Profile
}

func (f *fakeDirectory) GetByUsername(_ context.Context, username string) (*domain.Profile, error) {
	if p, ok := f.byUsername[username]; ok {
		return p, nil
	}
	return nil, errors.NotFound("user")
}

func (f *fakeDirectory) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, errors.NotFound("user")
}

func newTestService(t *testing.T, dir *fakeDirectory) (*AuthService, *testutil.MockDB) {
	t.Helper()

	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")
	sessions := repository.NewSessionRepository(database.NewFromSqlx(mockDB.DB, log))
	jwtManager := jwt.NewManager(&config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "worklog-test",
	})

	return NewAuthService(sessions, dir, jwtManager, log), mockDB
}

func activeProfile(username, password string) *domain.Profile {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	dept := "dept-1"
	return &domain.Profile{
		ID:           "user-1",
		Username:     username,
		PasswordHash: string(hash),
		Role:         "member",
		DepartmentID: &dept,
		IsActive:     true,
	}
}

func TestLoginSuccess(t *testing.T) {
	profile := activeProfile("alice", "password123")
	dir := &fakeDirectory{
		byUsername: map[string]*domain.Profile{"alice": profile},
		byID:       map[string]*domain.Profile{"user-1": profile},
	}
	svc, mockDB := newTestService(t, dir)
	defer mockDB.Close()

	mockDB.Mock.ExpectExec("INSERT INTO sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Username: "alice",
		Password: "password123",
	}, "test-agent", "127.0.0.1")

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "member", resp.User.Role)

	mockDB.ExpectationsWereMet(t)
}

func TestLoginWrongPassword(t *testing.T) {
	profile := activeProfile("alice", "password123")
	dir := &fakeDirectory{byUsername: map[string]*domain.Profile{"alice": profile}}
	svc, mockDB := newTestService(t, dir)
	defer mockDB.Close()

	_, err := svc.Login(context.Background(), &LoginRequest{
		Username: "alice",
		Password: "wrong-password",
	}, "", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

func TestLoginUnknownUser(t *testing.T) {
	dir := &fakeDirectory{byUsername: map[string]*domain.Profile{}}
	svc, mockDB := newTestService(t, dir)
	defer mockDB.Close()

	_, err := svc.Login(context.Background(), &LoginRequest{
		Username: "ghost",
		Password: "whatever123",
	}, "", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

func TestLoginDeactivatedUser(t *testing.T) {
	profile := activeProfile("alice", "password123")
	profile.IsActive = false
	dir := &fakeDirectory{byUsername: map[string]*domain.Profile{"alice": profile}}
	svc, mockDB := newTestService(t, dir)
	defer mockDB.Close()

	_, err := svc.Login(context.Background(), &LoginRequest{
		Username: "alice",
		Password: "password123",
	}, "", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	dir := &fakeDirectory{}
	svc, mockDB := newTestService(t, dir)
	defer mockDB.Close()

	_, err := svc.Refresh(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
}
