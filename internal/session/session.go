// Package session keeps the signed-in user's CMS token in a cookie-backed
// session and exposes it to handlers through the request context.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const DefaultName = "coursehub-session"

const (
	idKey       = "sid"
	tokenKey    = "token"
	userIDKey   = "user_id"
	usernameKey = "user_name"
	emailKey    = "user_email"
)

// Session is what we keep between requests. The role is not stored: it is
// looked up from the CMS on every gated request.
type Session struct {
	ID       string
	Token    string
	UserID   string
	Username string
	Email    string
}

// SignedIn reports whether the session carries a usable token.
func (s Session) SignedIn() bool { return s.Token != "" }

type ctxKey string

const currentKey ctxKey = "session"

// FromContext returns the session rehydrated by Manager.Load. Without one the
// caller is anonymous.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(currentKey).(Session)
	return s, ok
}

// WithSession stores s on ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, currentKey, s)
}

// Manager reads and writes sessions.
type Manager struct {
	Store sessions.Store
	Name  string
	Log   *zap.Logger

	now func() time.Time
}

// NewManager builds a cookie-store Manager. In production (secure=true)
// cookies are Secure; over plain http use secure=false. SameSite is always Lax
// so cross-site posts never carry the session.
func NewManager(key, name string, secure bool, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(key)))
	}
	if name == "" {
		name = DefaultName
	}

	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure))

	return &Manager{Store: store, Name: name, Log: logger, now: time.Now}, nil
}

// Login writes s to the response cookie. A fresh ID is assigned when s has none.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, s Session) (Session, error) {
	sess, _ := m.Store.Get(r, m.Name)
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	sess.Values[idKey] = s.ID
	sess.Values[tokenKey] = s.Token
	sess.Values[userIDKey] = s.UserID
	sess.Values[usernameKey] = s.Username
	sess.Values[emailKey] = s.Email
	if err := sess.Save(r, w); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	m.Log.Info("signed in", zap.String("session", s.ID), zap.String("user_id", s.UserID))
	return s, nil
}

// Logout clears the session cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.Store.Get(r, m.Name)
	id := getString(sess, idKey)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.Log.Info("signed out", zap.String("session", id))
	return nil
}

// Read returns the request's session. An expired token is dropped, leaving
// the visitor anonymous.
func (m *Manager) Read(r *http.Request) (Session, bool) {
	sess, err := m.Store.Get(r, m.Name)
	if err != nil || sess == nil {
		return Session{}, false
	}
	s := Session{
		ID:       getString(sess, idKey),
		Token:    getString(sess, tokenKey),
		UserID:   getString(sess, userIDKey),
		Username: getString(sess, usernameKey),
		Email:    getString(sess, emailKey),
	}
	if s.Token == "" {
		return Session{}, false
	}
	if Expired(s.Token, m.clock()) {
		m.Log.Debug("session token expired", zap.String("session", s.ID))
		return Session{}, false
	}
	return s, true
}

// Load rehydrates the session once per request and puts it on the context.
func (m *Manager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, ok := m.Read(r); ok {
			r = r.WithContext(WithSession(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Manager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

// Expired reports whether token is a JWT whose exp claim is at or before now.
// The signature is not checked here; the CMS does that on every call. Tokens
// that are not JWTs, or carry no exp, are not considered expired.
func Expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
