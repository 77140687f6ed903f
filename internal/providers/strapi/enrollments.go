package strapi

import (
	"context"
	"net/http"
	"net/url"

	"coursehub/internal/domain"
)

// Enroll connects userID to the course's users relation. The response does
// not list the relation; callers record the enrollment themselves.
func (c *Client) Enroll(ctx context.Context, courseID, userID string) (domain.Course, error) {
	return c.updateUsers(ctx, "enroll", "Failed to enroll in course", courseID, relationOps{
		Connect: relationRefs([]string{userID}),
	})
}

// Unenroll disconnects userID from the course's users relation.
func (c *Client) Unenroll(ctx context.Context, courseID, userID string) (domain.Course, error) {
	return c.updateUsers(ctx, "unenroll", "Failed to unenroll from course", courseID, relationOps{
		Disconnect: relationRefs([]string{userID}),
	})
}

// SetRoster applies a precomputed roster diff in one request.
func (c *Client) SetRoster(ctx context.Context, courseID string, connect, disconnect []string) (domain.Course, error) {
	return c.updateUsers(ctx, "set-roster", "Failed to update roster", courseID, relationOps{
		Connect:    relationRefs(connect),
		Disconnect: relationRefs(disconnect),
	})
}

func (c *Client) updateUsers(ctx context.Context, op, fallback, courseID string, ops relationOps) (domain.Course, error) {
	body, err := c.send(ctx, op, fallback, http.MethodPut, "/api/courses/"+url.PathEscape(courseID), populate("modules"), envelope{Data: usersRelationBody{Users: ops}})
	if err != nil {
		return domain.Course{}, err
	}
	return c.decodeCourse(op, fallback, body)
}
