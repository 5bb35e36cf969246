package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklog/worklog-backend/internal/project/repository"
	"github.com/worklog/worklog-backend/pkg/errors"
	"github.com/worklog/worklog-backend/pkg/logger"
	"github.com/worklog/worklog-backend/pkg/policy"
)

func newGuardTestService() *ProjectService {
	// Guard paths return before the repository or publisher are touched
	return NewProjectService(nil, nil, logger.New("project-test", "test"))
}

func TestCreateRequiresSuperAdmin(t *testing.T) {
	svc := newGuardTestService()

	req := &ProjectRequest{Name: "內部系統", Color: repository.Palette[0]}

	for _, role := range []string{policy.RoleMember, policy.RoleDepartmentAdmin} {
		_, err := svc.Create(context.Background(), role, req)
		require.Error(t, err, "role %s must not manage projects", role)
		assert.True(t, errors.Is(err, errors.ErrForbidden))
	}
}

func TestCreateRejectsNonPaletteColor(t *testing.T) {
	svc := newGuardTestService()

	_, err := svc.Create(context.Background(), policy.RoleSuperAdmin, &ProjectRequest{
		Name:  "內部系統",
		Color: "#123456",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestUpdateRejectsNonPaletteColor(t *testing.T) {
	svc := newGuardTestService()

	_, err := svc.Update(context.Background(), policy.RoleSuperAdmin, "p1", &ProjectRequest{
		Name:  "內部系統",
		Color: "red",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestPalette(t *testing.T) {
	assert.Len(t, repository.Palette, 8)
	for _, c := range repository.Palette {
		assert.True(t, repository.ValidColor(c))
	}
	assert.False(t, repository.ValidColor(""))
	assert.False(t, repository.ValidColor("#7c9cbf"), "palette matching is case sensitive")
}
