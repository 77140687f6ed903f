package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(strings.Repeat("k", 32), "", false, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  5,
		"exp": exp.Unix(),
	}).SignedString([]byte("cms-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

// load runs req through m.Load and returns what the handler saw.
func load(m *Manager, req *http.Request) (Session, bool) {
	var got Session
	var ok bool
	m.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = FromContext(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)
	return got, ok
}

func withCookies(req *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNewManagerRequiresKey(t *testing.T) {
	if _, err := NewManager("", "", false, nil); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestCookieIsSameSiteLax(t *testing.T) {
	for _, secure := range []bool{false, true} {
		m, err := NewManager(strings.Repeat("k", 32), "", secure, nil)
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}

		rec := httptest.NewRecorder()
		if _, err := m.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil), Session{Token: "t"}); err != nil {
			t.Fatalf("Login: %v", err)
		}
		cookies := rec.Result().Cookies()
		if len(cookies) == 0 {
			t.Fatal("expected a session cookie")
		}
		if cookies[0].SameSite != http.SameSiteLaxMode {
			t.Errorf("secure=%v: SameSite = %v, want Lax", secure, cookies[0].SameSite)
		}
		if cookies[0].Secure != secure {
			t.Errorf("secure=%v: cookie Secure = %v", secure, cookies[0].Secure)
		}
	}
}

func TestLoginThenLoad(t *testing.T) {
	m := testManager(t)
	token := signed(t, time.Now().Add(time.Hour))

	rec := httptest.NewRecorder()
	s, err := m.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil), Session{
		Token:    token,
		UserID:   "5",
		Username: "ana",
		Email:    "ana@example.com",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.ID == "" {
		t.Error("expected a session id to be assigned")
	}

	got, ok := load(m, withCookies(httptest.NewRequest(http.MethodGet, "/courses", nil), rec))
	if !ok {
		t.Fatal("expected session on context")
	}
	if got != s {
		t.Errorf("got %+v, want %+v", got, s)
	}
	if !got.SignedIn() {
		t.Error("expected SignedIn")
	}
}

func TestLoadWithoutCookie(t *testing.T) {
	m := testManager(t)
	if _, ok := load(m, httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Error("expected no session")
	}
}

func TestLoadDropsExpiredToken(t *testing.T) {
	m := testManager(t)

	rec := httptest.NewRecorder()
	if _, err := m.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil), Session{
		Token:  signed(t, time.Now().Add(time.Hour)),
		UserID: "5",
	}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, ok := load(m, withCookies(httptest.NewRequest(http.MethodGet, "/", nil), rec)); ok {
		t.Error("expected expired token to be treated as absent")
	}
}

func TestLogout(t *testing.T) {
	m := testManager(t)

	rec := httptest.NewRecorder()
	if _, err := m.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil), Session{Token: "opaque", UserID: "5"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	out := httptest.NewRecorder()
	if err := m.Logout(out, withCookies(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec)); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	cookies := out.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != DefaultName {
		t.Fatalf("expected one %s cookie, got %v", DefaultName, cookies)
	}
	if cookies[0].MaxAge >= 0 {
		t.Errorf("expected cookie to be expired, MaxAge=%d", cookies[0].MaxAge)
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name  string
		token string
		want  bool
	}{
		{"future exp", signed(t, now.Add(time.Minute)), false},
		{"past exp", signed(t, now.Add(-time.Minute)), true},
		{"exp now", signed(t, now), true},
		{"not a jwt", "opaque-token", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Expired(tc.token, now); got != tc.want {
				t.Errorf("Expired = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExpiredWithoutExpClaim(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": 5}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	if Expired(tok, time.Now()) {
		t.Error("expected token without exp to be kept")
	}
}
