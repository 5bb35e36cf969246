package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccessScope(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		scope      string
		ownDept    string
		targetDept string
		want       bool
	}{
		{"member own data", RoleMember, ScopeMe, "d1", "", true},
		{"member department denied", RoleMember, ScopeDepartment, "d1", "d1", false},
		{"member company denied", RoleMember, ScopeCompany, "d1", "", false},
		{"dept admin own data", RoleDepartmentAdmin, ScopeMe, "d1", "", true},
		{"dept admin own department", RoleDepartmentAdmin, ScopeDepartment, "d1", "d1", true},
		{"dept admin other department denied", RoleDepartmentAdmin, ScopeDepartment, "d1", "d2", false},
		{"dept admin without department denied", RoleDepartmentAdmin, ScopeDepartment, "", "", false},
		{"dept admin company denied", RoleDepartmentAdmin, ScopeCompany, "d1", "", false},
		{"super admin me", RoleSuperAdmin, ScopeMe, "", "", true},
		{"super admin any department", RoleSuperAdmin, ScopeDepartment, "", "d2", true},
		{"super admin company", RoleSuperAdmin, ScopeCompany, "", "", true},
		{"unknown role denied", "auditor", ScopeMe, "", "", false},
		{"unknown scope denied", RoleSuperAdmin, "team", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAccessScope(tt.role, tt.scope, tt.ownDept, tt.targetDept)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanManageUser(t *testing.T) {
	tests := []struct {
		name       string
		actorRole  string
		actorDept  string
		targetRole string
		targetDept string
		want       bool
	}{
		{"super admin manages anyone", RoleSuperAdmin, "", RoleDepartmentAdmin, "d2", true},
		{"dept admin manages own member", RoleDepartmentAdmin, "d1", RoleMember, "d1", true},
		{"dept admin cannot manage other department", RoleDepartmentAdmin, "d1", RoleMember, "d2", false},
		{"dept admin cannot promote", RoleDepartmentAdmin, "d1", RoleDepartmentAdmin, "d1", false},
		{"dept admin cannot create super admin", RoleDepartmentAdmin, "d1", RoleSuperAdmin, "d1", false},
		{"dept admin without department", RoleDepartmentAdmin, "", RoleMember, "", false},
		{"member manages nobody", RoleMember, "d1", RoleMember, "d1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanManageUser(tt.actorRole, tt.actorDept, tt.targetRole, tt.targetDept)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanWriteEntry(t *testing.T) {
	tests := []struct {
		name      string
		actorID   string
		actorRole string
		actorDept string
		ownerID   string
		ownerDept string
		want      bool
	}{
		{"owner writes own entry", "u1", RoleMember, "d1", "u1", "d1", true},
		{"member cannot write others", "u1", RoleMember, "d1", "u2", "d1", false},
		{"dept admin writes within department", "u1", RoleDepartmentAdmin, "d1", "u2", "d1", true},
		{"dept admin cannot cross departments", "u1", RoleDepartmentAdmin, "d1", "u2", "d2", false},
		{"super admin writes any", "u1", RoleSuperAdmin, "", "u2", "d2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanWriteEntry(tt.actorID, tt.actorRole, tt.actorDept, tt.ownerID, tt.ownerDept)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleSuperAdmin))
	assert.True(t, ValidRole(RoleDepartmentAdmin))
	assert.True(t, ValidRole(RoleMember))
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(RoleSuperAdmin))
	assert.True(t, IsAdmin(RoleDepartmentAdmin))
	assert.False(t, IsAdmin(RoleMember))
}
