package providers

import (
	"context"

	"coursehub/internal/domain"
	"coursehub/internal/mappers"
	"coursehub/internal/providers/strapi"
)

// CourseReader is the read side of the course catalog.
type CourseReader interface {
	ListCourses(ctx context.Context) ([]domain.Course, error)
	ListCoursesWithRosters(ctx context.Context) ([]domain.Course, []mappers.Roster, error)
	GetCourse(ctx context.Context, id string) (domain.Course, error)
	MyCourses(ctx context.Context) ([]domain.Course, []mappers.Roster, error)
}

// UserReader resolves accounts and the signed-in user.
type UserReader interface {
	Me(ctx context.Context) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// Mutator is the CMS mutation command set.
type Mutator interface {
	CreateCourse(ctx context.Context, in strapi.CourseInput) (domain.Course, error)
	UpdateCourse(ctx context.Context, id string, in strapi.CourseInput) (domain.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	CreateModule(ctx context.Context, in strapi.ModuleInput) (domain.Module, error)
	UpdateModule(ctx context.Context, id string, in strapi.ModuleInput) (domain.Module, error)
	DeleteModule(ctx context.Context, id string) error
	UpdateUserRole(ctx context.Context, id string, roleID int) (domain.User, error)
	Enroll(ctx context.Context, courseID, userID string) (domain.Course, error)
	Unenroll(ctx context.Context, courseID, userID string) (domain.Course, error)
	SetRoster(ctx context.Context, courseID string, connect, disconnect []string) (domain.Course, error)
}

// Authenticator covers the account flows.
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (strapi.Auth, error)
	Register(ctx context.Context, username, email, password string) (strapi.Auth, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code, password, confirmation string) (strapi.Auth, error)
}

// CMS is everything a request handler needs from the backend.
type CMS interface {
	CourseReader
	UserReader
	Mutator
	Authenticator
}

// Connector returns a CMS acting on behalf of token ("" for public access).
type Connector func(token string) CMS

// StrapiConnector binds a base client to per-request tokens.
func StrapiConnector(base *strapi.Client) Connector {
	return func(token string) CMS {
		return base.WithToken(token)
	}
}

var _ CMS = (*strapi.Client)(nil)
