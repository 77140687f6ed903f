package mappers

import (
	"reflect"
	"testing"

	"coursehub/internal/domain"
)

const coursesInline = `{
	"data": [
		{
			"id": 7,
			"documentId": "abc",
			"Title": "Dynamic Programming",
			"Description": "Memoize everything",
			"modules": [
				{
					"id": 11,
					"documentId": "mod-1",
					"Name": "Knapsack",
					"Details": [{"type":"paragraph","children":[{"type":"text","text":"0/1 and unbounded"}]}],
					"NumberOfClasses": 3,
					"TopicsCovered": [{"type":"paragraph","children":[{"type":"text","text":"A, B, C"}]}]
				},
				{
					"id": 12,
					"Name": "Broken",
					"Details": null,
					"TopicsCovered": []
				}
			],
			"users": [{"id": 5}, {"id": 6}, {"id": 5}]
		},
		{
			"id": 8,
			"Title": "No document id"
		}
	],
	"meta": {}
}`

const coursesEnveloped = `{
	"data": [
		{
			"id": 7,
			"attributes": {
				"documentId": "abc",
				"title": "Dynamic Programming",
				"description": "Memoize everything",
				"modules": {"data": [
					{"id": 11, "attributes": {"documentId": "mod-1", "Name": "Knapsack", "Details": "0/1 and unbounded", "NumberOfClasses": "3", "TopicsCovered": "A, B, C"}}
				]},
				"users": {"data": [{"id": 5}]}
			}
		}
	]
}`

func TestCoursesInline(t *testing.T) {
	raw, err := DecodeCourses([]byte(coursesInline))
	if err != nil {
		t.Fatalf("DecodeCourses: %v", err)
	}

	courses := Courses(raw)
	if len(courses) != 1 {
		t.Fatalf("Expected 1 course (entry without documentId dropped), got %d", len(courses))
	}

	c := courses[0]
	if c.ID != "abc" {
		t.Errorf("Expected course ID to be the documentId 'abc', got '%s'", c.ID)
	}
	if c.Title != "Dynamic Programming" || c.Description != "Memoize everything" {
		t.Errorf("Unexpected title/description: %q / %q", c.Title, c.Description)
	}
	if len(c.Modules) != 2 {
		t.Fatalf("Expected 2 modules, got %d", len(c.Modules))
	}

	m := c.Modules[0]
	expected := domain.Module{
		ID:          "mod-1",
		Name:        "Knapsack",
		Description: "0/1 and unbounded",
		ClassCount:  3,
		Topics:      []string{"A", "B", "C"},
	}
	if !reflect.DeepEqual(m, expected) {
		t.Errorf("Module = %#v; expected %#v", m, expected)
	}

	broken := c.Modules[1]
	if broken.ID != "12" {
		t.Errorf("Expected numeric id fallback '12', got '%s'", broken.ID)
	}
	if broken.Description != "" {
		t.Errorf("Expected empty description, got %q", broken.Description)
	}
	if broken.Topics == nil || len(broken.Topics) != 0 {
		t.Errorf("Expected empty non-nil topics, got %#v", broken.Topics)
	}
}

func TestCoursesEnvelopedVariant(t *testing.T) {
	raw, err := DecodeCourses([]byte(coursesEnveloped))
	if err != nil {
		t.Fatalf("DecodeCourses: %v", err)
	}

	inline, _ := DecodeCourses([]byte(coursesInline))
	a := Courses(raw)
	b := Courses(inline)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("Expected one course in both variants, got %d and %d", len(a), len(b))
	}
	if !reflect.DeepEqual(a[0].Modules[0], b[0].Modules[0]) {
		t.Errorf("Variants disagree:\n%#v\n%#v", a[0].Modules[0], b[0].Modules[0])
	}
	if a[0].Title != b[0].Title {
		t.Errorf("Variants disagree on title: %q vs %q", a[0].Title, b[0].Title)
	}

	rosters := Rosters(raw)
	if len(rosters) != 1 || !reflect.DeepEqual(rosters[0].UserIDs, []string{"5"}) {
		t.Errorf("Unexpected rosters: %#v", rosters)
	}
}

func TestCourseMissingRelations(t *testing.T) {
	raw, err := DecodeCourse([]byte(`{"data":{"documentId":"x1","Title":"Bare"}}`))
	if err != nil {
		t.Fatalf("DecodeCourse: %v", err)
	}

	c := ToCourse(raw)
	if c.ID != "x1" || c.Title != "Bare" {
		t.Errorf("Unexpected course: %#v", c)
	}
	if c.Modules == nil || len(c.Modules) != 0 {
		t.Errorf("Expected empty non-nil modules, got %#v", c.Modules)
	}
	if c.Description != "" {
		t.Errorf("Expected empty description, got %q", c.Description)
	}
}

func TestDecodeNotJSON(t *testing.T) {
	if _, err := DecodeCourses([]byte("<html>")); err != ErrNotJSON {
		t.Errorf("Expected ErrNotJSON, got %v", err)
	}
	if _, _, err := DecodeUser([]byte("")); err != ErrNotJSON {
		t.Errorf("Expected ErrNotJSON, got %v", err)
	}
}

func TestUsers(t *testing.T) {
	body := `[
		{"id": 1, "username": "ana", "email": "ana@example.com", "role": {"id": 3, "name": "Student", "type": "student"}},
		{"id": 2, "username": "bo", "email": "bo@example.com", "role": {"id": 4, "name": "social_media_manager"}},
		{"id": 3, "name": "cy", "email": "cy@example.com"},
		{"id": 4, "username": "di", "role": 3},
		{"id": 5, "username": "ed", "role": {"data": {"id": 1, "attributes": {"name": "Authenticated", "type": "authenticated"}}}}
	]`

	raw, err := DecodeUsers([]byte(body))
	if err != nil {
		t.Fatalf("DecodeUsers: %v", err)
	}
	users := Users(raw, DefaultRoleIDs())

	expected := []domain.User{
		{ID: "1", Name: "ana", Email: "ana@example.com", Role: domain.RoleStudent, RoleID: 3},
		{ID: "2", Name: "bo", Email: "bo@example.com", Role: domain.RoleContentManager, RoleID: 4},
		{ID: "3", Name: "cy", Email: "cy@example.com", Role: domain.RoleNormalUser},
		{ID: "4", Name: "di", Role: domain.RoleStudent, RoleID: 3},
		{ID: "5", Name: "ed", Role: domain.RoleNormalUser, RoleID: 1},
	}
	if !reflect.DeepEqual(users, expected) {
		t.Errorf("Users =\n%#v\nexpected\n%#v", users, expected)
	}
}

func TestCourseRefsDedupe(t *testing.T) {
	body := `{"id": 5, "username": "ana", "courses": [
		{"id": 1, "documentId": "abc", "Title": "DP"},
		{"id": 2, "documentId": "abc", "Title": "DP (draft)"},
		{"id": 3, "documentId": "def", "Title": "Graphs"}
	]}`

	raw, ok, err := DecodeUser([]byte(body))
	if err != nil || !ok {
		t.Fatalf("DecodeUser: ok=%v err=%v", ok, err)
	}

	refs := CourseRefs(raw)
	if len(refs) != 2 {
		t.Fatalf("Expected 2 courses, got %d", len(refs))
	}
	if refs[0].ID != "abc" || refs[0].Title != "DP" || refs[1].ID != "def" {
		t.Errorf("Unexpected refs: %#v", refs)
	}

	rosters := UserRosters(raw)
	if len(rosters) != 3 {
		t.Errorf("Expected one roster per relation entry, got %d", len(rosters))
	}
}
