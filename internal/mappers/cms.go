package mappers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// CMSCourse is a course entry as returned by /api/courses. Field names match
// the CMS content type; encoding/json matches them case-insensitively, which
// covers the Title/title drift between revisions.
type CMSCourse struct {
	ID          FlexID          `json:"id"`
	DocumentID  Text            `json:"documentId"`
	Title       Text            `json:"Title"`
	Description Text            `json:"Description"`
	Modules     Many[CMSModule] `json:"modules"`
	Users       Many[CMSUser]   `json:"users"`
}

// CMSModule is a module entry as returned by /api/modules or populated on a course.
type CMSModule struct {
	ID              FlexID  `json:"id"`
	DocumentID      Text    `json:"documentId"`
	Name            Text    `json:"Name"`
	Details         Text    `json:"Details"`
	NumberOfClasses FlexInt `json:"NumberOfClasses"`
	TopicsCovered   Text    `json:"TopicsCovered"`
}

// CMSUser is a users-permissions user. /api/users returns these bare (no
// data envelope).
type CMSUser struct {
	ID       FlexID          `json:"id"`
	Username Text            `json:"username"`
	Name     Text            `json:"name"`
	Email    Text            `json:"email"`
	Role     CMSRole         `json:"role"`
	Courses  Many[CMSCourse] `json:"courses"`
}

// CMSRole can come as:
// - { "id": 3, "name": "Student", "type": "student" } (populated)
// - { "data": { "id": 3, "attributes": { ... } } } (enveloped)
// - 3 (bare id, e.g. echoed back after an update)
// - "student" (name)
// - null / missing
type CMSRole struct {
	ID   int
	Name string
	Type string
	Set  bool
}

func (r *CMSRole) UnmarshalJSON(b []byte) error {
	*r = CMSRole{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if id, err := strconv.Atoi(s); err == nil {
			*r = CMSRole{ID: id, Set: true}
			return nil
		}
		*r = CMSRole{Name: s, Set: true}
	case '{':
		var one One[struct {
			ID   FlexInt `json:"id"`
			Name Text    `json:"name"`
			Type Text    `json:"type"`
		}]
		_ = one.UnmarshalJSON(b)
		if !one.Set {
			return nil
		}
		*r = CMSRole{
			ID:   int(one.V.ID),
			Name: strings.TrimSpace(one.V.Name.String()),
			Type: strings.TrimSpace(one.V.Type.String()),
			Set:  true,
		}
	default:
		var n FlexInt
		_ = n.UnmarshalJSON(b)
		if n > 0 {
			*r = CMSRole{ID: int(n), Set: true}
		}
	}
	return nil
}

// AuthResponse is the body of /api/auth/local and /api/auth/local/register.
type AuthResponse struct {
	JWT  string  `json:"jwt"`
	User CMSUser `json:"user"`
}
