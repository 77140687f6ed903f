// Package authz holds the permission table and the per-page role gates.
// Roles are the canonical domain.Role values; nothing outside this package
// compares role strings to decide access.
package authz

import "coursehub/internal/domain"

// Action is something a page lets the viewer do.
type Action string

const (
	ViewCatalog   Action = "view_catalog"
	ViewEnrolled  Action = "view_enrolled"
	Enroll        Action = "enroll"
	ViewManager   Action = "view_manager"
	ManageCourses Action = "manage_courses"
	ManageModules Action = "manage_modules"
	ManageUsers   Action = "manage_users"
)

var permissions = map[Action][]domain.Role{
	ViewCatalog:   domain.Roles,
	ViewEnrolled:  {domain.RoleStudent},
	Enroll:        {domain.RoleStudent},
	ViewManager:   {domain.RoleContentManager},
	ManageCourses: {domain.RoleContentManager},
	ManageModules: {domain.RoleContentManager},
	ManageUsers:   {domain.RoleContentManager},
}

// Actions lists every known action.
func Actions() []Action {
	return []Action{ViewCatalog, ViewEnrolled, Enroll, ViewManager, ManageCourses, ManageModules, ManageUsers}
}

// Can reports whether role may perform action. Unknown roles and unknown
// actions are denied.
func Can(role domain.Role, action Action) bool {
	for _, r := range permissions[action] {
		if r == role {
			return true
		}
	}
	return false
}
