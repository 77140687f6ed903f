package authz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"coursehub/internal/domain"
)

func TestCan(t *testing.T) {
	type row struct {
		unregistered, normal, student, manager bool
	}
	table := map[Action]row{
		ViewCatalog:   {true, true, true, true},
		ViewEnrolled:  {false, false, true, false},
		Enroll:        {false, false, true, false},
		ViewManager:   {false, false, false, true},
		ManageCourses: {false, false, false, true},
		ManageModules: {false, false, false, true},
		ManageUsers:   {false, false, false, true},
	}

	for action, want := range table {
		got := row{
			Can(domain.RoleUnregistered, action),
			Can(domain.RoleNormalUser, action),
			Can(domain.RoleStudent, action),
			Can(domain.RoleContentManager, action),
		}
		if got != want {
			t.Errorf("%s: got %+v, want %+v", action, got, want)
		}
	}

	if Can(domain.Role("admin"), ViewCatalog) {
		t.Error("expected unknown role to be denied")
	}
	if Can(domain.RoleContentManager, Action("drop_database")) {
		t.Error("expected unknown action to be denied")
	}
}

func TestReachable(t *testing.T) {
	tests := []struct {
		role domain.Role
		want []string
	}{
		{domain.RoleUnregistered, []string{"landing"}},
		{domain.RoleNormalUser, []string{"landing"}},
		{domain.RoleStudent, []string{"landing", "my-courses", "course-detail"}},
		{domain.RoleContentManager, []string{"landing", "manager"}},
	}
	for _, tt := range tests {
		var got []string
		for _, p := range Reachable(tt.role) {
			got = append(got, p.Name)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Reachable(%s) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestPageAllows(t *testing.T) {
	if !Manager.Allows(ManageUsers) {
		t.Error("expected manager page to allow manage_users")
	}
	if Manager.Allows(Enroll) {
		t.Error("expected manager page not to allow enroll")
	}
	if !CourseDetail.Allows(Enroll) {
		t.Error("expected course detail to allow enroll")
	}
}

type fakeSource struct {
	user  domain.User
	err   error
	calls int
}

func (f *fakeSource) Me(ctx context.Context) (domain.User, error) {
	f.calls++
	return f.user, f.err
}

func TestGateCheck(t *testing.T) {
	testCases := []struct {
		name   string
		page   Page
		src    *fakeSource
		want   State
		viewer domain.Role
	}{
		{"manager sees manager page", Manager, &fakeSource{user: domain.User{ID: "1", Role: domain.RoleContentManager}}, Authorized, domain.RoleContentManager},
		{"student bounced from manager page", Manager, &fakeSource{user: domain.User{ID: "2", Role: domain.RoleStudent}}, Unauthorized, domain.RoleStudent},
		{"normal user bounced from my courses", MyCourses, &fakeSource{user: domain.User{ID: "3", Role: domain.RoleNormalUser}}, Unauthorized, domain.RoleNormalUser},
		{"student sees my courses", MyCourses, &fakeSource{user: domain.User{ID: "2", Role: domain.RoleStudent}}, Authorized, domain.RoleStudent},
		{"lookup failure is unregistered", Manager, &fakeSource{err: errors.New("boom")}, Unauthorized, domain.RoleUnregistered},
		{"lookup failure still sees landing", Landing, &fakeSource{err: errors.New("boom")}, Authorized, domain.RoleUnregistered},
		{"unknown role is unregistered", Manager, &fakeSource{user: domain.User{ID: "4", Role: "admin"}}, Unauthorized, domain.RoleUnregistered},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGate(tc.page, nil)
			if g.State() != Unknown {
				t.Fatalf("new gate state = %s", g.State())
			}

			state, _ := g.Check(context.Background(), tc.src)
			if state != tc.want {
				t.Errorf("state = %s, want %s", state, tc.want)
			}
			if g.Viewer().Role != tc.viewer {
				t.Errorf("viewer role = %s, want %s", g.Viewer().Role, tc.viewer)
			}
			wantTrail := []State{Unknown, Checking, tc.want}
			if !reflect.DeepEqual(g.Trail(), wantTrail) {
				t.Errorf("trail = %v, want %v", g.Trail(), wantTrail)
			}
		})
	}
}

func TestGateCheckWithoutSource(t *testing.T) {
	g := NewGate(CourseDetail, nil)
	state, err := g.Check(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != Unauthorized || g.Viewer().Role != domain.RoleUnregistered {
		t.Errorf("got %s as %s", state, g.Viewer().Role)
	}
}

func TestGateChecksOnce(t *testing.T) {
	src := &fakeSource{user: domain.User{Role: domain.RoleStudent}}
	g := NewGate(MyCourses, nil)
	g.Check(context.Background(), src)
	g.Check(context.Background(), src)
	if src.calls != 1 {
		t.Errorf("expected one lookup, got %d", src.calls)
	}
}

func TestGateCan(t *testing.T) {
	g := NewGate(Manager, nil)
	if g.Can(ViewCatalog) {
		t.Error("expected Can to be false before Check")
	}
	g.Check(context.Background(), &fakeSource{user: domain.User{Role: domain.RoleContentManager}})
	if !g.Can(ManageCourses) {
		t.Error("expected manager to manage courses")
	}
	if g.Can(Enroll) {
		t.Error("expected manager not to enroll")
	}
}

func TestStateString(t *testing.T) {
	if Checking.String() != "checking" || State(42).String() != "State(42)" {
		t.Errorf("unexpected names: %s, %s", Checking, State(42))
	}
}

func TestRequire(t *testing.T) {
	testCases := []struct {
		name       string
		src        RoleSource
		wantStatus int
		wantCalled bool
	}{
		{"manager", &fakeSource{user: domain.User{ID: "1", Role: domain.RoleContentManager}}, http.StatusOK, true},
		{"student", &fakeSource{user: domain.User{ID: "2", Role: domain.RoleStudent}}, http.StatusSeeOther, false},
		{"normal user", &fakeSource{user: domain.User{ID: "3", Role: domain.RoleNormalUser}}, http.StatusSeeOther, false},
		{"lookup fails", &fakeSource{err: errors.New("timeout")}, http.StatusSeeOther, false},
		{"no session", nil, http.StatusSeeOther, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				u, ok := ViewerFrom(r.Context())
				if !ok || u.Role != domain.RoleContentManager {
					t.Errorf("viewer not injected: %+v", u)
				}
				w.WriteHeader(http.StatusOK)
			})

			src := tc.src
			h := Require(Manager, func(*http.Request) RoleSource { return src }, nil)(next)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/manager", nil))

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if called != tc.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tc.wantCalled)
			}
			if rec.Code == http.StatusSeeOther && rec.Header().Get("Location") != "/" {
				t.Errorf("Location = %q, want /", rec.Header().Get("Location"))
			}
		})
	}
}

func TestViewerFromEmptyContext(t *testing.T) {
	u, ok := ViewerFrom(context.Background())
	if ok || u.Role != domain.RoleUnregistered {
		t.Errorf("got %+v, %v", u, ok)
	}
}
