package strapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"coursehub/internal/domain"
	"coursehub/internal/mappers"
)

// ListCourses returns the catalog with modules populated. It works with or
// without a token, since the catalog is public.
func (c *Client) ListCourses(ctx context.Context) ([]domain.Course, error) {
	const op, fallback = "list-courses", "Failed to fetch courses"
	body, err := c.send(ctx, op, fallback, http.MethodGet, "/api/courses", populate("modules"), nil)
	if err != nil {
		return nil, err
	}
	raw, err := mappers.DecodeCourses(body)
	if err != nil {
		return nil, fail(op, fallback, err)
	}
	return mappers.Courses(raw), nil
}

// ListCoursesWithRosters returns the catalog plus each course's users relation.
func (c *Client) ListCoursesWithRosters(ctx context.Context) ([]domain.Course, []mappers.Roster, error) {
	const op, fallback = "list-courses", "Failed to fetch courses"
	body, err := c.send(ctx, op, fallback, http.MethodGet, "/api/courses", populate("modules", "users"), nil)
	if err != nil {
		return nil, nil, err
	}
	raw, err := mappers.DecodeCourses(body)
	if err != nil {
		return nil, nil, fail(op, fallback, err)
	}
	return mappers.Courses(raw), mappers.Rosters(raw), nil
}

// GetCourse returns one course by documentId.
func (c *Client) GetCourse(ctx context.Context, id string) (domain.Course, error) {
	const op, fallback = "get-course", "Failed to fetch course"
	body, err := c.send(ctx, op, fallback, http.MethodGet, "/api/courses/"+url.PathEscape(id), populate("modules"), nil)
	if err != nil {
		return domain.Course{}, err
	}
	return c.decodeCourse(op, fallback, body)
}

// MyCourses returns the signed-in user's courses, one entry per documentId,
// and the courses relation read from the user side as rosters. The rosters
// may repeat a course; sync.DeriveEnrollments collapses them.
func (c *Client) MyCourses(ctx context.Context) ([]domain.Course, []mappers.Roster, error) {
	const op, fallback = "my-courses", "Failed to fetch user courses"
	if err := c.requireToken(op); err != nil {
		return nil, nil, err
	}

	body, err := c.send(ctx, op, fallback, http.MethodGet, "/api/users/me", populate("courses"), nil)
	if err != nil {
		return nil, nil, err
	}
	raw, _, err := mappers.DecodeUser(body)
	if err != nil {
		return nil, nil, fail(op, fallback, err)
	}
	return mappers.CourseRefs(raw), mappers.UserRosters(raw), nil
}

// CreateCourse creates a course and returns it as the CMS accepted it.
func (c *Client) CreateCourse(ctx context.Context, in CourseInput) (domain.Course, error) {
	const op, fallback = "create-course", "Failed to create course"
	body, err := c.send(ctx, op, fallback, http.MethodPost, "/api/courses", nil, envelope{Data: courseBody{
		Title:       in.Title,
		Description: in.Description,
	}})
	if err != nil {
		return domain.Course{}, err
	}
	return c.decodeCourse(op, fallback, body)
}

// UpdateCourse replaces a course's title and description.
func (c *Client) UpdateCourse(ctx context.Context, id string, in CourseInput) (domain.Course, error) {
	const op, fallback = "update-course", "Failed to update course"
	body, err := c.send(ctx, op, fallback, http.MethodPut, "/api/courses/"+url.PathEscape(id), populate("modules"), envelope{Data: courseBody{
		Title:       in.Title,
		Description: in.Description,
	}})
	if err != nil {
		return domain.Course{}, err
	}
	return c.decodeCourse(op, fallback, body)
}

// DeleteCourse deletes a course by documentId.
func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	_, err := c.send(ctx, "delete-course", "Failed to delete course", http.MethodDelete, "/api/courses/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) decodeCourse(op, fallback string, body []byte) (domain.Course, error) {
	raw, err := mappers.DecodeCourse(body)
	if err != nil {
		return domain.Course{}, fail(op, fallback, err)
	}
	if strings.TrimSpace(raw.DocumentID.String()) == "" {
		return domain.Course{}, &Error{Op: op, Status: http.StatusNotFound, Message: fallback}
	}
	return mappers.ToCourse(raw), nil
}
