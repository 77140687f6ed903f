package strapi

import (
	"coursehub/internal/domain"
	"coursehub/internal/mappers"
)

// CourseInput is the editable part of a course.
type CourseInput struct {
	Title       string
	Description string
}

// ModuleInput is the editable part of a module. CourseID is the course's
// documentId.
type ModuleInput struct {
	Name        string
	Description string
	ClassCount  int
	Topics      []string
	CourseID    string
}

// Auth is the outcome of login/register/reset-password. RoleKnown is false
// when the response carried no role relation; callers must resolve the role
// with Me before trusting User.Role.
type Auth struct {
	Token     string
	User      domain.User
	RoleKnown bool
}

/* -------- Request bodies (CMS field names) -------- */

type envelope struct {
	Data any `json:"data"`
}

type courseBody struct {
	Title       string `json:"Title"`
	Description string `json:"Description"`
}

type moduleBody struct {
	Name            string          `json:"Name"`
	Details         []mappers.Block `json:"Details"`
	NumberOfClasses int             `json:"NumberOfClasses"`
	TopicsCovered   []mappers.Block `json:"TopicsCovered"`
	Course          string          `json:"course,omitempty"`
}

type roleBody struct {
	Role int `json:"role"`
}

type relationOps struct {
	Connect    []any `json:"connect,omitempty"`
	Disconnect []any `json:"disconnect,omitempty"`
}

type usersRelationBody struct {
	Users relationOps `json:"users"`
}

func toModuleBody(in ModuleInput) moduleBody {
	return moduleBody{
		Name:            in.Name,
		Details:         mappers.RichText(in.Description),
		NumberOfClasses: in.ClassCount,
		TopicsCovered:   mappers.RichText(mappers.TopicsText(in.Topics)),
		Course:          in.CourseID,
	}
}
