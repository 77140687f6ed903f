package web

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// securityHeaders adds OWASP recommended headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// csrfForms protects form submissions. JSON requests are exempt: browsers
// cannot send them cross-site without a CORS preflight.
func csrfForms(authKey []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
	)

	return func(next http.Handler) http.Handler {
		guarded := protect(exposeToken(next))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mediaType(r) == "application/json" {
				next.ServeHTTP(w, r)
				return
			}
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			guarded.ServeHTTP(w, r)
		})
	}
}

// exposeToken hands the CSRF token to clients so they can echo it back in
// the X-CSRF-Token header or the gorilla.csrf.Token form field.
func exposeToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := csrf.Token(r); tok != "" {
			w.Header().Set("X-CSRF-Token", tok)
		}
		next.ServeHTTP(w, r)
	})
}

// jsonOnly refuses unsafe requests whose body is declared as anything but
// JSON. Requests without a body type pass: browsers always label form posts.
func jsonOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
		default:
			if ct := mediaType(r); ct != "" && ct != "application/json" {
				writeJSON(w, http.StatusUnsupportedMediaType, errorBody{Error: unsupportedMedia{got: ct}.Error()})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
