package web

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"coursehub/internal/authz"
	"coursehub/internal/domain"
	"coursehub/internal/providers/strapi"
	"coursehub/internal/session"
)

type authResult struct {
	Viewer viewerView `json:"viewer"`
}

// signIn stores the token in the session cookie and resolves the role with
// a fresh /users/me lookup. A failed lookup leaves the viewer unregistered.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, a strapi.Auth) {
	sess, err := s.Sessions.Login(w, r, session.Session{
		Token:    a.Token,
		UserID:   a.User.ID,
		Username: a.User.Name,
		Email:    a.User.Email,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	viewer := s.resolveAfterSignIn(r.Context(), a)
	s.Log.Info("viewer resolved",
		zap.String("session", sess.ID),
		zap.String("user_id", viewer.ID),
		zap.String("role", viewer.Role.String()))

	writeJSON(w, http.StatusOK, authResult{Viewer: toViewerView(viewer, authz.Landing)})
}

func (s *Server) resolveAfterSignIn(ctx context.Context, a strapi.Auth) domain.User {
	u, err := s.Connect(a.Token).Me(ctx)
	if err != nil || !u.Role.Valid() {
		fallback := a.User
		fallback.Role = domain.RoleUnregistered
		fallback.RoleID = 0
		return fallback
	}
	return u
}

// login handles POST /auth/login with identifier and password.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	vals, err := formValues(r, "identifier", "password")
	if err == nil {
		err = requireFields(vals, "identifier", "password")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.Connect("").Login(r.Context(), vals["identifier"], vals["password"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.signIn(w, r, a)
}

// register handles POST /auth/register.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	vals, err := formValues(r, "username", "email", "password")
	if err == nil {
		err = requireFields(vals, "username", "email", "password")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.Connect("").Register(r.Context(), vals["username"], vals["email"], vals["password"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.signIn(w, r, a)
}

// forgotPassword handles POST /auth/forgot-password.
func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	vals, err := formValues(r, "email")
	if err == nil {
		err = requireFields(vals, "email")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.Connect("").ForgotPassword(r.Context(), vals["email"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// resetPassword handles POST /auth/reset-password and signs the user in.
func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	vals, err := formValues(r, "code", "password", "passwordConfirmation")
	if err == nil {
		err = requireFields(vals, "code", "password", "passwordConfirmation")
	}
	if err == nil && vals["password"] != vals["passwordConfirmation"] {
		err = badRequest{"Passwords do not match"}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.Connect("").ResetPassword(r.Context(), vals["code"], vals["password"], vals["passwordConfirmation"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.signIn(w, r, a)
}

// logout handles POST /auth/logout.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Logout(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
