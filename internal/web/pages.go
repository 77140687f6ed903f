package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"coursehub/internal/authz"
	"coursehub/internal/concurrency"
	"coursehub/internal/domain"
	"coursehub/internal/mappers"
	"coursehub/internal/providers"
	"coursehub/internal/sync"
)

type landingPage struct {
	Viewer  viewerView   `json:"viewer"`
	Courses []courseView `json:"courses"`
}

// landing handles GET /: the public catalog.
func (s *Server) landing(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFrom(r.Context())

	courses, err := s.cms(r).ListCourses(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, landingPage{
		Viewer:  toViewerView(viewer, authz.Landing),
		Courses: toCourseViews(courses),
	})
}

type myCoursesPage struct {
	Viewer      viewerView       `json:"viewer"`
	Courses     []courseView     `json:"courses"`
	Enrollments []enrollmentView `json:"enrollments"`
}

// myEnrollments fetches the viewer's courses and the enrollments derived
// from the user side of the course relation.
func myEnrollments(cms providers.CourseReader, courses *[]domain.Course, enrollments *[]domain.Enrollment) concurrency.Fetch {
	return func(ctx context.Context) error {
		c, rosters, err := cms.MyCourses(ctx)
		if err != nil {
			return err
		}
		*courses, *enrollments = c, sync.DeriveEnrollments(rosters)
		return nil
	}
}

// myCourses handles GET /courses: the student's enrolled courses, with
// modules taken from the catalog.
func (s *Server) myCourses(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFrom(r.Context())
	cms := s.cms(r)

	var catalog, mine []domain.Course
	var enrollments []domain.Enrollment
	if err := concurrency.FetchAll(r.Context(),
		concurrency.Into(&catalog, cms.ListCourses),
		myEnrollments(cms, &mine, &enrollments),
	); err != nil {
		s.writeError(w, r, err)
		return
	}

	byID := make(map[string]domain.Course, len(catalog))
	for _, c := range catalog {
		byID[c.ID] = c
	}

	courses := make([]domain.Course, 0, len(mine))
	for _, c := range mine {
		if full, ok := byID[c.ID]; ok {
			c = full
		}
		courses = append(courses, c)
	}

	writeJSON(w, http.StatusOK, myCoursesPage{
		Viewer:      toViewerView(viewer, authz.MyCourses),
		Courses:     toCourseViews(courses),
		Enrollments: toEnrollmentViews(enrollments),
	})
}

type courseDetailPage struct {
	Viewer     viewerView      `json:"viewer"`
	Course     courseView      `json:"course"`
	Enrolled   bool            `json:"enrolled"`
	Enrollment *enrollmentView `json:"enrollment,omitempty"`
}

// courseDetail handles GET /courses/{id}.
func (s *Server) courseDetail(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFrom(r.Context())
	id := chi.URLParam(r, "id")
	cms := s.cms(r)

	var course domain.Course
	var mine []domain.Course
	var enrollments []domain.Enrollment
	if err := concurrency.FetchAll(r.Context(),
		concurrency.Into(&course, func(ctx context.Context) (domain.Course, error) {
			return cms.GetCourse(ctx, id)
		}),
		myEnrollments(cms, &mine, &enrollments),
	); err != nil {
		s.writeError(w, r, err)
		return
	}

	page := courseDetailPage{
		Viewer: toViewerView(viewer, authz.CourseDetail),
		Course: toCourseView(course),
	}
	for _, e := range enrollments {
		if e.CourseID == course.ID {
			ev := toEnrollmentView(e)
			page.Enrolled, page.Enrollment = true, &ev
			break
		}
	}
	writeJSON(w, http.StatusOK, page)
}

type roleStats struct {
	Total        int `json:"total"`
	Students     int `json:"students"`
	NormalUsers  int `json:"normalUsers"`
	Managers     int `json:"managers"`
	Unregistered int `json:"unregistered"`
}

type userFilter struct {
	Q    string `json:"q"`
	Role string `json:"role"`
}

type managerPage struct {
	Viewer      viewerView       `json:"viewer"`
	Courses     []courseView     `json:"courses"`
	Users       []userView       `json:"users"`
	Enrollments []enrollmentView `json:"enrollments"`
	Stats       roleStats        `json:"stats"`
	Filter      userFilter       `json:"filter"`
}

// managerState loads courses with rosters and users concurrently and derives
// enrollments from the rosters.
func (s *Server) managerState(ctx context.Context, r *http.Request) ([]domain.Course, []domain.User, []domain.Enrollment, error) {
	cms := s.cms(r)

	var courses []domain.Course
	var rosters []mappers.Roster
	var users []domain.User
	err := concurrency.FetchAll(ctx,
		func(ctx context.Context) error {
			c, rs, err := cms.ListCoursesWithRosters(ctx)
			if err != nil {
				return err
			}
			courses, rosters = c, rs
			return nil
		},
		concurrency.Into(&users, cms.ListUsers),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	return courses, users, sync.DeriveEnrollments(rosters), nil
}

// manager handles GET /manager. ?q= matches name or email, ?role= filters by
// canonical role. Stats always cover every user.
func (s *Server) manager(w http.ResponseWriter, r *http.Request) {
	viewer, _ := authz.ViewerFrom(r.Context())

	filter := userFilter{
		Q:    strings.TrimSpace(r.URL.Query().Get("q")),
		Role: strings.TrimSpace(r.URL.Query().Get("role")),
	}
	if filter.Role != "" && !domain.Role(filter.Role).Valid() {
		s.writeError(w, r, badRequest{"unknown role filter " + filter.Role})
		return
	}

	courses, users, enrollments, err := s.managerState(r.Context(), r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, managerPage{
		Viewer:      toViewerView(viewer, authz.Manager),
		Courses:     toCourseViews(courses),
		Users:       toUserViews(filterUsers(users, filter)),
		Enrollments: toEnrollmentViews(enrollments),
		Stats:       countRoles(users),
		Filter:      filter,
	})
}

func countRoles(users []domain.User) roleStats {
	st := roleStats{Total: len(users)}
	for _, u := range users {
		switch u.Role {
		case domain.RoleStudent:
			st.Students++
		case domain.RoleNormalUser:
			st.NormalUsers++
		case domain.RoleContentManager:
			st.Managers++
		case domain.RoleUnregistered:
			st.Unregistered++
		}
	}
	return st
}

func filterUsers(users []domain.User, f userFilter) []domain.User {
	q := strings.ToLower(f.Q)
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if f.Role != "" && u.Role != domain.Role(f.Role) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Email), q) {
			continue
		}
		out = append(out, u)
	}
	return out
}
