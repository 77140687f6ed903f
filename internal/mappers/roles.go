package mappers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"coursehub/internal/domain"
)

// ParseRole maps every role spelling seen in CMS data onto the canonical set.
// Unknown names resolve to RoleNormalUser: the account exists but carries no
// recognised privileges.
func ParseRole(name string) domain.Role {
	k := strings.ToLower(strings.TrimSpace(name))
	k = strings.NewReplacer(" ", "_", "-", "_").Replace(k)

	switch k {
	case "", "public", "unregistered", "visitor":
		return domain.RoleUnregistered
	case "student", "students":
		return domain.RoleStudent
	case "content_manager", "contentmanager", "social_media_manager", "manager":
		return domain.RoleContentManager
	case "normal_user", "normaluser", "authenticated", "user":
		return domain.RoleNormalUser
	}
	return domain.RoleNormalUser
}

// RoleIDs maps canonical roles to numeric CMS role ids. The CMS takes the
// numeric id on writes and may echo only the id back.
type RoleIDs map[domain.Role]int

// DefaultRoleIDs matches a stock users-permissions install with the two
// custom roles created third and fourth.
func DefaultRoleIDs() RoleIDs {
	return RoleIDs{
		domain.RoleNormalUser:     1,
		domain.RoleUnregistered:   2,
		domain.RoleStudent:        3,
		domain.RoleContentManager: 4,
	}
}

// ParseRoleIDs reads "normal_user=1,student=3,content_manager=4".
// Empty input yields DefaultRoleIDs. Each id may name one role only.
func ParseRoleIDs(s string) (RoleIDs, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultRoleIDs(), nil
	}

	out := RoleIDs{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("role ids: %q is not name=id", part)
		}
		id, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("role ids: invalid id in %q", part)
		}
		role := domain.Role(strings.TrimSpace(name))
		if !role.Valid() {
			return nil, fmt.Errorf("role ids: unknown role %q", name)
		}
		for other, oid := range out {
			if oid == id && other != role {
				return nil, fmt.Errorf("role ids: id %d given to both %s and %s", id, other, role)
			}
		}
		out[role] = id
	}
	return out, nil
}

// ID returns the CMS id for role.
func (r RoleIDs) ID(role domain.Role) (int, bool) {
	id, ok := r[role]
	return id, ok
}

// Role returns the canonical role for a CMS id.
func (r RoleIDs) Role(id int) (domain.Role, bool) {
	for role, rid := range r {
		if rid == id {
			return role, true
		}
	}
	return "", false
}

func (r RoleIDs) String() string {
	parts := make([]string, 0, len(r))
	for role, id := range r {
		parts = append(parts, fmt.Sprintf("%s=%d", role, id))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
