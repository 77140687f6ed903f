// Package web serves the course platform pages as JSON over a chi router.
// Every gated page resolves the viewer's role from the CMS before it loads
// any data; viewers without the page's view action are sent to "/".
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"coursehub/internal/authz"
	"coursehub/internal/mappers"
	"coursehub/internal/providers"
	"coursehub/internal/session"
)

// Server holds dependencies shared by every handler.
type Server struct {
	Connect  providers.Connector
	Sessions *session.Manager
	Roles    mappers.RoleIDs
	Log      *zap.Logger

	// CSRFKey enables CSRF checks on form posts when set (32 bytes).
	CSRFKey []byte
	Secure  bool
}

func NewServer(connect providers.Connector, sessions *session.Manager, roles mappers.RoleIDs, logger *zap.Logger) *Server {
	if roles == nil {
		roles = mappers.DefaultRoleIDs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Connect:  connect,
		Sessions: sessions,
		Roles:    roles,
		Log:      logger,
	}
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLog)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	if len(s.CSRFKey) > 0 {
		r.Use(csrfForms(s.CSRFKey, s.Secure))
	}
	r.Use(s.Sessions.Load)

	r.Get("/healthz", s.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/register", s.register)
		r.Post("/forgot-password", s.forgotPassword)
		r.Post("/reset-password", s.resetPassword)
		r.Post("/logout", s.logout)
	})

	r.With(s.gate(authz.Landing)).Get("/", s.landing)

	r.Route("/courses", func(r chi.Router) {
		r.With(s.gate(authz.MyCourses)).Get("/", s.myCourses)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(jsonOnly)
			r.Use(s.gate(authz.CourseDetail))
			r.Get("/", s.courseDetail)
			r.Post("/enrollment", s.enroll)
			r.Delete("/enrollment", s.unenroll)
		})
	})

	r.Route("/manager", func(r chi.Router) {
		r.Use(jsonOnly)
		r.Use(s.gate(authz.Manager))
		r.Get("/", s.manager)

		r.Post("/courses", s.createCourse)
		r.Put("/courses/{id}", s.updateCourse)
		r.Delete("/courses/{id}", s.deleteCourse)
		r.Put("/courses/{id}/roster", s.setRoster)

		r.Post("/courses/{id}/modules", s.createModule)
		r.Put("/courses/{id}/modules/{moduleID}", s.updateModule)
		r.Delete("/courses/{id}/modules/{moduleID}", s.deleteModule)

		r.Put("/users/{id}/role", s.updateUserRole)
	})

	return r
}

// cms returns the CMS acting for the request's session, or publicly.
func (s *Server) cms(r *http.Request) providers.CMS {
	sess, _ := session.FromContext(r.Context())
	return s.Connect(sess.Token)
}

// roleSource is nil without a session token, so anonymous visitors never
// trigger a role lookup.
func (s *Server) roleSource(r *http.Request) authz.RoleSource {
	sess, ok := session.FromContext(r.Context())
	if !ok || !sess.SignedIn() {
		return nil
	}
	return s.Connect(sess.Token)
}

func (s *Server) gate(page authz.Page) func(http.Handler) http.Handler {
	return authz.Require(page, s.roleSource, s.Log)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Log.Info("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("took", time.Since(start)))
	})
}
