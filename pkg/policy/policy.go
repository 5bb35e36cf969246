// Package policy centralizes role-based access decisions. Every handler and
// service routes its authorization checks through these functions so that the
// role model lives in exactly one place.
//
// Roles:
//   - "super_admin" - full access across all departments
//   - "department_admin" - manages members and data within their own department
//   - "member" - manages only their own time entries
package policy

// Role names as stored on profiles.
const (
	RoleSuperAdmin      = "super_admin"
	RoleDepartmentAdmin = "department_admin"
	RoleMember          = "member"
)

// Report scopes accepted by the export and dashboard endpoints.
const (
	ScopeMe         = "me"
	ScopeDepartment = "department"
	ScopeCompany    = "company"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleDepartmentAdmin, RoleMember:
		return true
	}
	return false
}

// IsAdmin reports whether the role carries any administrative rights.
func IsAdmin(role string) bool {
	return role == RoleSuperAdmin || role == RoleDepartmentAdmin
}

// CanAccessScope decides whether an actor may view data at the given scope.
// ownDepartment is the actor's department ID ("" when unassigned);
// targetDepartment is the department being requested, relevant only for
// scope "department". Members see only their own data. Department admins
// additionally see their own department. Super admins see everything.
func CanAccessScope(role, scope, ownDepartment, targetDepartment string) bool {
	switch scope {
	case ScopeMe:
		return ValidRole(role)
	case ScopeDepartment:
		if role == RoleSuperAdmin {
			return true
		}
		if role == RoleDepartmentAdmin {
			return ownDepartment != "" && ownDepartment == targetDepartment
		}
		return false
	case ScopeCompany:
		return role == RoleSuperAdmin
	}
	return false
}

// CanManageUser decides whether an actor may create, update, or delete a user
// with the target role in the target department. Super admins manage anyone.
// Department admins manage only members of their own department.
func CanManageUser(actorRole, actorDepartment, targetRole, targetDepartment string) bool {
	switch actorRole {
	case RoleSuperAdmin:
		return true
	case RoleDepartmentAdmin:
		return targetRole == RoleMember &&
			actorDepartment != "" &&
			actorDepartment == targetDepartment
	}
	return false
}

// CanWriteEntry decides whether an actor may create, update, or delete a time
// entry owned by ownerID. Owners always write their own entries. Department
// admins write entries of members in their department. Super admins write any.
func CanWriteEntry(actorID, actorRole, actorDepartment, ownerID, ownerDepartment string) bool {
	if actorID == ownerID {
		return true
	}
	switch actorRole {
	case RoleSuperAdmin:
		return true
	case RoleDepartmentAdmin:
		return actorDepartment != "" && actorDepartment == ownerDepartment
	}
	return false
}

// CanManageProjects decides whether an actor may create or update projects.
func CanManageProjects(role string) bool {
	return role == RoleSuperAdmin
}

// CanManageDepartments decides whether an actor may mutate departments.
func CanManageDepartments(role string) bool {
	return role == RoleSuperAdmin
}
