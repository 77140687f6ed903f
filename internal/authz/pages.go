package authz

import "coursehub/internal/domain"

// Page is a routed view: the action needed to see it and the actions its
// mutations need.
type Page struct {
	Name      string
	Path      string
	View      Action
	Mutations []Action
}

// Landing is "/"; unauthorized visitors of other pages end up here.
const LandingPath = "/"

var (
	Landing = Page{
		Name: "landing",
		Path: LandingPath,
		View: ViewCatalog,
	}
	MyCourses = Page{
		Name: "my-courses",
		Path: "/courses",
		View: ViewEnrolled,
	}
	CourseDetail = Page{
		Name:      "course-detail",
		Path:      "/courses/{id}",
		View:      ViewEnrolled,
		Mutations: []Action{Enroll},
	}
	Manager = Page{
		Name:      "manager",
		Path:      "/manager",
		View:      ViewManager,
		Mutations: []Action{ManageCourses, ManageModules, ManageUsers},
	}
)

// Pages lists every gated page.
var Pages = []Page{Landing, MyCourses, CourseDetail, Manager}

// Reachable returns the pages role may view, in Pages order.
func Reachable(role domain.Role) []Page {
	var out []Page
	for _, p := range Pages {
		if Can(role, p.View) {
			out = append(out, p)
		}
	}
	return out
}

// Allows reports whether the page exposes action as one of its mutations.
func (p Page) Allows(action Action) bool {
	for _, a := range p.Mutations {
		if a == action {
			return true
		}
	}
	return false
}
