package web

import (
	"coursehub/internal/authz"
	"coursehub/internal/domain"
)

/* -------- JSON page models -------- */

type userView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	RoleID int    `json:"roleId,omitempty"`
}

type moduleView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ClassCount  int      `json:"classCount"`
	Topics      []string `json:"topics"`
}

type courseView struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Modules     []moduleView `json:"modules"`
}

type enrollmentView struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	CourseID string `json:"courseId"`
}

// viewerView is the signed-in user plus what the current page lets them do.
type viewerView struct {
	userView
	SignedIn bool     `json:"signedIn"`
	Actions  []string `json:"actions"`
	Nav      []string `json:"nav"` // paths of the pages the role may open
}

func toUserView(u domain.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role.String(), RoleID: u.RoleID}
}

func toUserViews(in []domain.User) []userView {
	out := make([]userView, 0, len(in))
	for _, u := range in {
		out = append(out, toUserView(u))
	}
	return out
}

func toModuleView(m domain.Module) moduleView {
	topics := m.Topics
	if topics == nil {
		topics = []string{}
	}
	return moduleView{ID: m.ID, Name: m.Name, Description: m.Description, ClassCount: m.ClassCount, Topics: topics}
}

func toCourseView(c domain.Course) courseView {
	mods := make([]moduleView, 0, len(c.Modules))
	for _, m := range c.Modules {
		mods = append(mods, toModuleView(m))
	}
	return courseView{ID: c.ID, Title: c.Title, Description: c.Description, Modules: mods}
}

func toCourseViews(in []domain.Course) []courseView {
	out := make([]courseView, 0, len(in))
	for _, c := range in {
		out = append(out, toCourseView(c))
	}
	return out
}

func toEnrollmentView(e domain.Enrollment) enrollmentView {
	return enrollmentView{ID: e.ID, UserID: e.UserID, CourseID: e.CourseID}
}

func toEnrollmentViews(in []domain.Enrollment) []enrollmentView {
	out := make([]enrollmentView, 0, len(in))
	for _, e := range in {
		out = append(out, toEnrollmentView(e))
	}
	return out
}

// toViewerView lists the page's view and mutation actions the viewer holds.
func toViewerView(u domain.User, page authz.Page) viewerView {
	v := viewerView{userView: toUserView(u), SignedIn: u.ID != "", Actions: []string{}, Nav: []string{}}
	for _, p := range authz.Reachable(u.Role) {
		v.Nav = append(v.Nav, p.Path)
	}
	for _, a := range append([]authz.Action{page.View}, page.Mutations...) {
		if authz.Can(u.Role, a) {
			v.Actions = append(v.Actions, string(a))
		}
	}
	return v
}
