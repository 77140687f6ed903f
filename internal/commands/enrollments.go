package commands

import (
	"context"

	"coursehub/internal/authz"
	"coursehub/internal/sync"
)

// Enroll signs the viewer up for a course.
type Enroll struct {
	CourseID string `json:"-"`
}

func (c *Enroll) Kind() string         { return "enroll" }
func (c *Enroll) Action() authz.Action { return authz.Enroll }

func (c *Enroll) Prepare(_ Cleaner, env Env) error {
	if err := requiredID("courseId", c.CourseID); err != nil {
		return err
	}
	return requiredID("userId", env.Viewer.ID)
}

func (c *Enroll) Execute(ctx context.Context, env Env, _ *State) (Apply, error) {
	if _, err := env.CMS.Enroll(ctx, c.CourseID, env.Viewer.ID); err != nil {
		return nil, err
	}
	uid := env.Viewer.ID
	return func(st *State) {
		st.Enrollments = sync.AddEnrollment(st.Enrollments, c.CourseID, uid)
	}, nil
}

// Unenroll removes the viewer from a course.
type Unenroll struct {
	CourseID string `json:"-"`
}

func (c *Unenroll) Kind() string         { return "unenroll" }
func (c *Unenroll) Action() authz.Action { return authz.Enroll }

func (c *Unenroll) Prepare(_ Cleaner, env Env) error {
	if err := requiredID("courseId", c.CourseID); err != nil {
		return err
	}
	return requiredID("userId", env.Viewer.ID)
}

func (c *Unenroll) Execute(ctx context.Context, env Env, _ *State) (Apply, error) {
	if _, err := env.CMS.Unenroll(ctx, c.CourseID, env.Viewer.ID); err != nil {
		return nil, err
	}
	uid := env.Viewer.ID
	return func(st *State) {
		st.Enrollments = sync.RemoveEnrollment(st.Enrollments, c.CourseID, uid)
	}, nil
}

// SetRoster makes a course's roster exactly UserIDs, sending only the
// difference from the roster the page currently shows.
type SetRoster struct {
	CourseID string   `json:"-"`
	UserIDs  []string `json:"userIds"`

	diff sync.RosterDiff
}

func (c *SetRoster) Kind() string         { return "set-roster" }
func (c *SetRoster) Action() authz.Action { return authz.ManageUsers }

func (c *SetRoster) Prepare(Cleaner, Env) error { return requiredID("courseId", c.CourseID) }

func (c *SetRoster) Execute(ctx context.Context, env Env, st *State) (Apply, error) {
	var current []string
	if st != nil {
		current = sync.RosterOf(st.Enrollments, c.CourseID)
	}
	c.diff = sync.DiffRoster(c.CourseID, current, c.UserIDs)
	if c.diff.Empty() {
		return nil, nil
	}

	if _, err := env.CMS.SetRoster(ctx, c.CourseID, c.diff.Connect, c.diff.Disconnect); err != nil {
		return nil, err
	}
	d := c.diff
	return func(st *State) {
		st.Enrollments = sync.ApplyDiff(st.Enrollments, d)
	}, nil
}

// Diff is the change computed by the last Execute.
func (c *SetRoster) Diff() sync.RosterDiff { return c.diff }
