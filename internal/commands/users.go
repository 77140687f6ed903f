package commands

import (
	"context"
	"fmt"

	"coursehub/internal/authz"
	"coursehub/internal/domain"
)

type UpdateUserRole struct {
	UserID string      `json:"-"`
	Role   domain.Role `json:"role"`

	roleID int
}

func (c *UpdateUserRole) Kind() string         { return "update-user-role" }
func (c *UpdateUserRole) Action() authz.Action { return authz.ManageUsers }

func (c *UpdateUserRole) Prepare(_ Cleaner, env Env) error {
	if err := requiredID("userId", c.UserID); err != nil {
		return err
	}
	if !c.Role.Valid() {
		return invalid("role", fmt.Sprintf("unknown role %q", c.Role))
	}
	if c.UserID == env.Viewer.ID {
		return fmt.Errorf("%s: cannot change your own role: %w", c.Kind(), ErrForbidden)
	}
	id, ok := env.RoleIDs.ID(c.Role)
	if !ok {
		return invalid("role", fmt.Sprintf("no CMS role id configured for %q", c.Role))
	}
	c.roleID = id
	return nil
}

func (c *UpdateUserRole) Execute(ctx context.Context, env Env, _ *State) (Apply, error) {
	u, err := env.CMS.UpdateUserRole(ctx, c.UserID, c.roleID)
	if err != nil {
		return nil, err
	}
	return func(st *State) {
		i := findUser(st, u.ID)
		if i < 0 {
			st.Users = append(st.Users, u)
			return
		}
		prev := st.Users[i]
		if u.Name == "" {
			u.Name = prev.Name
		}
		if u.Email == "" {
			u.Email = prev.Email
		}
		st.Users[i] = u
	}, nil
}
