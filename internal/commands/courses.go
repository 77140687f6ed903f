package commands

import (
	"context"

	"coursehub/internal/authz"
	"coursehub/internal/domain"
	"coursehub/internal/providers/strapi"
	"coursehub/internal/sync"
)

type CreateCourse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (c *CreateCourse) Kind() string         { return "create-course" }
func (c *CreateCourse) Action() authz.Action { return authz.ManageCourses }

func (c *CreateCourse) Prepare(clean Cleaner, _ Env) error {
	c.Description = clean(c.Description)
	return required(clean, "title", &c.Title)
}

func (c *CreateCourse) Execute(ctx context.Context, env Env, _ *State) (Apply, error) {
	course, err := env.CMS.CreateCourse(ctx, strapi.CourseInput{Title: c.Title, Description: c.Description})
	if err != nil {
		return nil, err
	}
	return func(st *State) {
		st.Courses = append(st.Courses, course)
	}, nil
}

type UpdateCourse struct {
	ID          string `json:"-"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (c *UpdateCourse) Kind() string         { return "update-course" }
func (c *UpdateCourse) Action() authz.Action { return authz.ManageCourses }

func (c *UpdateCourse) Prepare(clean Cleaner, _ Env) error {
	if err := requiredID("id", c.ID); err != nil {
		return err
	}
	c.Description = clean(c.Description)
	return required(clean, "title", &c.Title)
}

func (c *UpdateCourse) Execute(ctx context.Context, env Env, _ *State) (Apply, error) {
	course, err := env.CMS.UpdateCourse(ctx, c.ID, strapi.CourseInput{Title: c.Title, Description: c.Description})
	if err != nil {
		return nil, err
	}
	return func(st *State) {
		i := findCourse(st, c.ID)
		if i < 0 {
			st.Courses = append(st.Courses, course)
			return
		}
		// the update response may come back without the modules relation
		if len(course.Modules) == 0 {
			course.Modules = st.Courses[i].Modules
		}
		st.Courses[i] = course
	}, nil
}

type DeleteCourse struct {
	ID string `json:"-"`
}

func (c *DeleteCourse) Kind() string         { return "delete-course" }
func (c *DeleteCourse) Action() authz.Action { return authz.ManageCourses }

func (c *DeleteCourse) Prepare(Cleaner, Env) error { return requiredID("id", c.ID) }

func (c *DeleteCourse) Execute(ctx context.Context, env Env, _ *State) (Apply, error) {
	if err := env.CMS.DeleteCourse(ctx, c.ID); err != nil {
		return nil, err
	}
	return func(st *State) {
		out := make([]domain.Course, 0, len(st.Courses))
		for _, course := range st.Courses {
			if course.ID != c.ID {
				out = append(out, course)
			}
		}
		st.Courses = out
		st.Enrollments = sync.DropCourse(st.Enrollments, c.ID)
	}, nil
}
