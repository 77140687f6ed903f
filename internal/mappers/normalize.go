package mappers

import (
	"encoding/json"
	"errors"
	"strings"

	"coursehub/internal/domain"
)

// ErrNotJSON is returned when a payload is not JSON at all. Shape problems
// inside valid JSON never produce errors.
var ErrNotJSON = errors.New("mappers: payload is not valid JSON")

// Roster is the user side of a course's users relation.
type Roster struct {
	CourseID string
	UserIDs  []string
}

// DecodeCourses reads a course collection: { "data": [ ... ] } or a bare array.
func DecodeCourses(body []byte) ([]CMSCourse, error) {
	if !json.Valid(body) {
		return nil, ErrNotJSON
	}
	var out Many[CMSCourse]
	_ = json.Unmarshal(body, &out)
	return out, nil
}

// DecodeCourse reads a single course: { "data": { ... } } or a bare object.
func DecodeCourse(body []byte) (CMSCourse, error) {
	var one One[CMSCourse]
	if err := decodeOne(body, &one); err != nil {
		return CMSCourse{}, err
	}
	return one.V, nil
}

// DecodeModule reads a single module entry.
func DecodeModule(body []byte) (CMSModule, error) {
	var one One[CMSModule]
	if err := decodeOne(body, &one); err != nil {
		return CMSModule{}, err
	}
	return one.V, nil
}

// DecodeUsers reads /api/users, which is a bare array, tolerating an envelope.
func DecodeUsers(body []byte) ([]CMSUser, error) {
	if !json.Valid(body) {
		return nil, ErrNotJSON
	}
	var out Many[CMSUser]
	_ = json.Unmarshal(body, &out)
	return out, nil
}

// DecodeUser reads a single user (bare object, or enveloped).
// The second return reports whether any user object was present.
func DecodeUser(body []byte) (CMSUser, bool, error) {
	var one One[CMSUser]
	if err := decodeOne(body, &one); err != nil {
		return CMSUser{}, false, err
	}
	return one.V, one.Set, nil
}

// DecodeAuth reads a login/register response.
func DecodeAuth(body []byte) (AuthResponse, error) {
	if !json.Valid(body) {
		return AuthResponse{}, ErrNotJSON
	}
	var out AuthResponse
	if err := json.Unmarshal(body, &out); err != nil {
		// jwt of the wrong type; the user part is tolerant on its own
		return AuthResponse{}, nil
	}
	return out, nil
}

func decodeOne[T any](body []byte, one *One[T]) error {
	if !json.Valid(body) {
		return ErrNotJSON
	}
	return one.UnmarshalJSON(body)
}

// ToCourse flattens a CMS course. The id is the documentId.
func ToCourse(c CMSCourse) domain.Course {
	out := domain.Course{
		ID:          strings.TrimSpace(c.DocumentID.String()),
		Title:       c.Title.String(),
		Description: c.Description.String(),
		Modules:     make([]domain.Module, 0, len(c.Modules)),
	}
	for _, m := range c.Modules {
		out.Modules = append(out.Modules, ToModule(m))
	}
	return out
}

// ToModule flattens a CMS module. documentId wins over the numeric id when
// both are present.
func ToModule(m CMSModule) domain.Module {
	id := strings.TrimSpace(m.DocumentID.String())
	if id == "" {
		id = m.ID.String()
	}
	return domain.Module{
		ID:          id,
		Name:        m.Name.String(),
		Description: m.Details.String(),
		ClassCount:  int(m.NumberOfClasses),
		Topics:      ParseTopics(m.TopicsCovered.String()),
	}
}

// ToUser flattens a CMS user. A user with no role relation is a registered
// account without extra privileges.
func ToUser(u CMSUser, ids RoleIDs) domain.User {
	name := strings.TrimSpace(u.Username.String())
	if name == "" {
		name = strings.TrimSpace(u.Name.String())
	}
	out := domain.User{
		ID:    u.ID.String(),
		Name:  name,
		Email: strings.TrimSpace(u.Email.String()),
		Role:  domain.RoleNormalUser,
	}
	if u.Role.Set {
		out.Role, out.RoleID, _ = RoleFrom(u.Role, ids)
	}
	return out
}

// RoleFrom resolves a CMS role relation. Names win; a bare id goes through ids.
// ok is false when the relation carries nothing that identifies a role
// (no name, no type, no known id); the role is then normal_user.
func RoleFrom(r CMSRole, ids RoleIDs) (role domain.Role, id int, ok bool) {
	id = r.ID
	switch {
	case r.Name != "":
		return ParseRole(r.Name), id, true
	case r.Type != "":
		return ParseRole(r.Type), id, true
	case id > 0:
		if known, found := ids.Role(id); found {
			return known, id, true
		}
	}
	return domain.RoleNormalUser, id, false
}

// Courses flattens a course collection, dropping entries without a
// documentId since they cannot be linked or edited.
func Courses(in []CMSCourse) []domain.Course {
	out := make([]domain.Course, 0, len(in))
	for _, c := range in {
		dc := ToCourse(c)
		if dc.ID == "" {
			continue
		}
		out = append(out, dc)
	}
	return out
}

// CourseRefs flattens the courses relation of a user, keeping the first
// occurrence of each documentId. Modules are not populated on that relation.
func CourseRefs(u CMSUser) []domain.Course {
	out := make([]domain.Course, 0, len(u.Courses))
	seen := map[string]bool{}
	for _, c := range u.Courses {
		dc := ToCourse(c)
		if dc.ID == "" || seen[dc.ID] {
			continue
		}
		seen[dc.ID] = true
		out = append(out, dc)
	}
	return out
}

// Users flattens a user collection.
func Users(in []CMSUser, ids RoleIDs) []domain.User {
	out := make([]domain.User, 0, len(in))
	for _, u := range in {
		out = append(out, ToUser(u, ids))
	}
	return out
}

// ToRoster reads the populated users relation of a course.
func ToRoster(c CMSCourse) Roster {
	r := Roster{CourseID: strings.TrimSpace(c.DocumentID.String())}
	for _, u := range c.Users {
		if id := u.ID.String(); id != "" {
			r.UserIDs = append(r.UserIDs, id)
		}
	}
	return r
}

// Rosters reads every course's users relation.
func Rosters(in []CMSCourse) []Roster {
	out := make([]Roster, 0, len(in))
	for _, c := range in {
		r := ToRoster(c)
		if r.CourseID == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// UserRosters reads the courses relation from the user side, producing one
// single-user roster per course.
func UserRosters(u CMSUser) []Roster {
	uid := u.ID.String()
	if uid == "" {
		return nil
	}
	out := make([]Roster, 0, len(u.Courses))
	for _, c := range u.Courses {
		cid := strings.TrimSpace(c.DocumentID.String())
		if cid == "" {
			continue
		}
		out = append(out, Roster{CourseID: cid, UserIDs: []string{uid}})
	}
	return out
}
