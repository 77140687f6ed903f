package domain

// Role is the closed set of role tags used across the application.
type Role string

const (
	RoleUnregistered   Role = "unregistered"
	RoleNormalUser     Role = "normal_user"
	RoleStudent        Role = "student"
	RoleContentManager Role = "content_manager"
)

// Roles lists every role in display order.
var Roles = []Role{RoleUnregistered, RoleNormalUser, RoleStudent, RoleContentManager}

func (r Role) Valid() bool {
	switch r {
	case RoleUnregistered, RoleNormalUser, RoleStudent, RoleContentManager:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// User is a CMS account as seen by the application.
type User struct {
	ID     string
	Name   string
	Email  string
	Role   Role
	RoleID int // numeric CMS role id; 0 when unknown
}
