package commands

import (
	"context"

	"coursehub/internal/authz"
	"coursehub/internal/domain"
	"coursehub/internal/mappers"
	"coursehub/internal/providers/strapi"
)

// ModuleFields is the editable part of a module as posted by the manager page.
type ModuleFields struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ClassCount  int      `json:"classCount"`
	Topics      []string `json:"topics"`
}

func (f *ModuleFields) prepare(clean Cleaner) error {
	if err := required(clean, "name", &f.Name); err != nil {
		return err
	}
	if f.ClassCount < 0 {
		return invalid("classCount", "must be zero or more")
	}
	f.Description = clean(f.Description)
	topics := make([]string, 0, len(f.Topics))
	for _, t := range f.Topics {
		topics = append(topics, clean(t))
	}
	f.Topics = mappers.CleanTopics(topics)
	return nil
}

func (f ModuleFields) input(courseID string) strapi.ModuleInput {
	return strapi.ModuleInput{
		Name:        f.Name,
		Description: f.Description,
		ClassCount:  f.ClassCount,
		Topics:      f.Topics,
		CourseID:    courseID,
	}
}

type CreateModule struct {
	CourseID string `json:"-"`
	ModuleFields
}

func (c *CreateModule) Kind() string         { return "create-module" }
func (c *CreateModule) Action() authz.Action { return authz.ManageModules }

func (c *CreateModule) Prepare(clean Cleaner, _ Env) error {
	if err := requiredID("courseId", c.CourseID); err != nil {
		return err
	}
	return c.ModuleFields.prepare(clean)
}

func (c *CreateModule) Execute(ctx context.Context, env Env, _ *State) (Apply, error) {
	m, err := env.CMS.CreateModule(ctx, c.input(c.CourseID))
	if err != nil {
		return nil, err
	}
	return func(st *State) {
		if i := findCourse(st, c.CourseID); i >= 0 {
			st.Courses[i].Modules = append(st.Courses[i].Modules, m)
		}
	}, nil
}

type UpdateModule struct {
	CourseID string `json:"-"`
	ID       string `json:"-"`
	ModuleFields
}

func (c *UpdateModule) Kind() string         { return "update-module" }
func (c *UpdateModule) Action() authz.Action { return authz.ManageModules }

func (c *UpdateModule) Prepare(clean Cleaner, _ Env) error {
	if err := requiredID("courseId", c.CourseID); err != nil {
		return err
	}
	if err := requiredID("id", c.ID); err != nil {
		return err
	}
	return c.ModuleFields.prepare(clean)
}

func (c *UpdateModule) Execute(ctx context.Context, env Env, _ *State) (Apply, error) {
	m, err := env.CMS.UpdateModule(ctx, c.ID, c.input(c.CourseID))
	if err != nil {
		return nil, err
	}
	return func(st *State) {
		i := findCourse(st, c.CourseID)
		if i < 0 {
			return
		}
		if j := st.Courses[i].FindModule(c.ID); j >= 0 {
			st.Courses[i].Modules[j] = m
			return
		}
		st.Courses[i].Modules = append(st.Courses[i].Modules, m)
	}, nil
}

type DeleteModule struct {
	CourseID string `json:"-"`
	ID       string `json:"-"`
}

func (c *DeleteModule) Kind() string         { return "delete-module" }
func (c *DeleteModule) Action() authz.Action { return authz.ManageModules }

func (c *DeleteModule) Prepare(Cleaner, Env) error { return requiredID("id", c.ID) }

func (c *DeleteModule) Execute(ctx context.Context, env Env, _ *State) (Apply, error) {
	if err := env.CMS.DeleteModule(ctx, c.ID); err != nil {
		return nil, err
	}
	return func(st *State) {
		for i := range st.Courses {
			if c.CourseID != "" && st.Courses[i].ID != c.CourseID {
				continue
			}
			if j := st.Courses[i].FindModule(c.ID); j >= 0 {
				mods := st.Courses[i].Modules
				st.Courses[i].Modules = append(append([]domain.Module{}, mods[:j]...), mods[j+1:]...)
			}
		}
	}, nil
}
