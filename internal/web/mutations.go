package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"coursehub/internal/authz"
	"coursehub/internal/commands"
	"coursehub/internal/domain"
	"coursehub/internal/sync"
)

// dispatch runs cmd for the gated viewer. It writes the error response and
// returns false on failure.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, page authz.Page, cmd commands.Command, st *commands.State) bool {
	viewer, _ := authz.ViewerFrom(r.Context())
	d := commands.NewDispatcher(s.cms(r), viewer, s.Roles, page, s.Log)
	if err := d.Dispatch(r.Context(), cmd, st); err != nil {
		s.writeError(w, r, err)
		return false
	}
	return true
}

type enrollmentResult struct {
	CourseID   string          `json:"courseId"`
	Enrolled   bool            `json:"enrolled"`
	Enrollment *enrollmentView `json:"enrollment,omitempty"`
}

// enroll handles POST /courses/{id}/enrollment.
func (s *Server) enroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st := &commands.State{}
	if !s.dispatch(w, r, authz.CourseDetail, &commands.Enroll{CourseID: id}, st) {
		return
	}
	res := enrollmentResult{CourseID: id, Enrolled: true}
	if len(st.Enrollments) > 0 {
		e := toEnrollmentView(st.Enrollments[0])
		res.Enrollment = &e
	}
	writeJSON(w, http.StatusOK, res)
}

// unenroll handles DELETE /courses/{id}/enrollment.
func (s *Server) unenroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.dispatch(w, r, authz.CourseDetail, &commands.Unenroll{CourseID: id}, &commands.State{}) {
		return
	}
	writeJSON(w, http.StatusOK, enrollmentResult{CourseID: id, Enrolled: false})
}

type deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// createCourse handles POST /manager/courses.
func (s *Server) createCourse(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.CreateCourse{}
	if err := decodeBody(r, cmd); err != nil {
		s.writeError(w, r, err)
		return
	}
	st := &commands.State{}
	if !s.dispatch(w, r, authz.Manager, cmd, st) {
		return
	}
	writeJSON(w, http.StatusCreated, toCourseView(st.Courses[len(st.Courses)-1]))
}

// updateCourse handles PUT /manager/courses/{id}.
func (s *Server) updateCourse(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.UpdateCourse{}
	if err := decodeBody(r, cmd); err != nil {
		s.writeError(w, r, err)
		return
	}
	cmd.ID = chi.URLParam(r, "id")
	st := &commands.State{}
	if !s.dispatch(w, r, authz.Manager, cmd, st) {
		return
	}
	writeJSON(w, http.StatusOK, toCourseView(st.Courses[0]))
}

// deleteCourse handles DELETE /manager/courses/{id}.
func (s *Server) deleteCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.dispatch(w, r, authz.Manager, &commands.DeleteCourse{ID: id}, &commands.State{}) {
		return
	}
	writeJSON(w, http.StatusOK, deleted{ID: id, Deleted: true})
}

type rosterResult struct {
	CourseID    string           `json:"courseId"`
	Connect     []string         `json:"connect"`
	Disconnect  []string         `json:"disconnect"`
	Enrollments []enrollmentView `json:"enrollments"`
}

// setRoster handles PUT /manager/courses/{id}/roster with {"userIds": [...]}.
// The diff is computed against the roster the CMS has right now.
func (s *Server) setRoster(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.SetRoster{}
	if err := decodeBody(r, cmd); err != nil {
		s.writeError(w, r, err)
		return
	}
	cmd.CourseID = chi.URLParam(r, "id")

	_, _, enrollments, err := s.managerState(r.Context(), r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st := &commands.State{Enrollments: enrollments}
	if !s.dispatch(w, r, authz.Manager, cmd, st) {
		return
	}

	d := cmd.Diff()
	var mine []domain.Enrollment
	for _, e := range st.Enrollments {
		if e.CourseID == cmd.CourseID {
			mine = append(mine, e)
		}
	}
	writeJSON(w, http.StatusOK, rosterResult{
		CourseID:    cmd.CourseID,
		Connect:     nonNil(d.Connect),
		Disconnect:  nonNil(d.Disconnect),
		Enrollments: toEnrollmentViews(sync.DedupeEnrollments(mine)),
	})
}

// moduleState seeds a state holding just the target course so the command
// result has somewhere to land.
func moduleState(courseID string) *commands.State {
	return &commands.State{Courses: []domain.Course{{ID: courseID, Modules: []domain.Module{}}}}
}

func lastModule(st *commands.State) moduleView {
	mods := st.Courses[0].Modules
	return toModuleView(mods[len(mods)-1])
}

// createModule handles POST /manager/courses/{id}/modules.
func (s *Server) createModule(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.CreateModule{}
	if err := decodeBody(r, cmd); err != nil {
		s.writeError(w, r, err)
		return
	}
	cmd.CourseID = chi.URLParam(r, "id")
	st := moduleState(cmd.CourseID)
	if !s.dispatch(w, r, authz.Manager, cmd, st) {
		return
	}
	writeJSON(w, http.StatusCreated, lastModule(st))
}

// updateModule handles PUT /manager/courses/{id}/modules/{moduleID}.
func (s *Server) updateModule(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.UpdateModule{}
	if err := decodeBody(r, cmd); err != nil {
		s.writeError(w, r, err)
		return
	}
	cmd.CourseID = chi.URLParam(r, "id")
	cmd.ID = chi.URLParam(r, "moduleID")
	st := moduleState(cmd.CourseID)
	if !s.dispatch(w, r, authz.Manager, cmd, st) {
		return
	}
	writeJSON(w, http.StatusOK, lastModule(st))
}

// deleteModule handles DELETE /manager/courses/{id}/modules/{moduleID}.
func (s *Server) deleteModule(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.DeleteModule{CourseID: chi.URLParam(r, "id"), ID: chi.URLParam(r, "moduleID")}
	if !s.dispatch(w, r, authz.Manager, cmd, moduleState(cmd.CourseID)) {
		return
	}
	writeJSON(w, http.StatusOK, deleted{ID: cmd.ID, Deleted: true})
}

// updateUserRole handles PUT /manager/users/{id}/role with {"role": "student"}.
func (s *Server) updateUserRole(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.UpdateUserRole{}
	if err := decodeBody(r, cmd); err != nil {
		s.writeError(w, r, err)
		return
	}
	cmd.UserID = chi.URLParam(r, "id")
	st := &commands.State{}
	if !s.dispatch(w, r, authz.Manager, cmd, st) {
		return
	}
	writeJSON(w, http.StatusOK, toUserView(st.Users[0]))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
