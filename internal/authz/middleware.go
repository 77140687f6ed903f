package authz

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"coursehub/internal/domain"
)

type ctxKey string

const viewerKey ctxKey = "viewer"

// WithViewer stores the gate's resolved user on ctx.
func WithViewer(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, viewerKey, u)
}

// ViewerFrom returns the user stored by WithViewer. Without one the viewer is
// unregistered.
func ViewerFrom(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(viewerKey).(domain.User)
	if !ok {
		return domain.User{Role: domain.RoleUnregistered}, false
	}
	return u, true
}

// SourceFunc picks the role source for a request, or nil when the request
// carries no session token.
type SourceFunc func(r *http.Request) RoleSource

// Require gates page. Unauthorized requests get a 303 to the landing page
// before the wrapped handler runs, so no page data is fetched for them.
func Require(page Page, source SourceFunc, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g := NewGate(page, logger)

			var src RoleSource
			if source != nil {
				src = source(r)
			}

			state, err := g.Check(r.Context(), src)
			if err != nil {
				logger.Info("role lookup failed, treating viewer as unregistered",
					zap.String("page", page.Name),
					zap.Error(err))
			}
			if state != Authorized {
				http.Redirect(w, r, LandingPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), g.Viewer())))
		})
	}
}
