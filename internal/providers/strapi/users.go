package strapi

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"coursehub/internal/domain"
	"coursehub/internal/mappers"
)

// ListUsers returns every account with its role.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	const op, fallback = "list-users", "Failed to fetch users"
	body, err := c.send(ctx, op, fallback, http.MethodGet, "/api/users", populate("role"), nil)
	if err != nil {
		return nil, err
	}
	raw, err := mappers.DecodeUsers(body)
	if err != nil {
		return nil, fail(op, fallback, err)
	}
	return mappers.Users(raw, c.Roles), nil
}

// UpdateUserRole assigns the CMS role roleID to user id. The returned user
// reflects the response; fields the response omits fall back to the inputs.
func (c *Client) UpdateUserRole(ctx context.Context, id string, roleID int) (domain.User, error) {
	const op, fallback = "update-user-role", "Failed to update user role"
	body, err := c.send(ctx, op, fallback, http.MethodPut, "/api/users/"+url.PathEscape(id), nil, envelope{Data: roleBody{Role: roleID}})
	if err != nil {
		return domain.User{}, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	raw, _, err := mappers.DecodeUser(body)
	if err != nil {
		return domain.User{}, fail(op, fallback, err)
	}

	u := mappers.ToUser(raw, c.Roles)
	if u.ID == "" {
		u.ID = id
	}
	// {"role": {}} or {"role": {"id": 0}} is as partial as no role at all
	if _, _, resolved := mappers.RoleFrom(raw.Role, c.Roles); !raw.Role.Set || !resolved {
		u.RoleID = roleID
		if role, ok := c.Roles.Role(roleID); ok {
			u.Role = role
		}
	}
	return u, nil
}
