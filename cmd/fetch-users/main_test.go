package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"coursehub/internal/commands"
	"coursehub/internal/domain"
	"coursehub/internal/mappers"
	"coursehub/internal/providers"
)

// fakeCMS implements only what the command touches; anything else panics.
type fakeCMS struct {
	providers.CMS
	me      domain.User
	users   []domain.User
	updated map[string]int
}

func (f *fakeCMS) Me(context.Context) (domain.User, error) { return f.me, nil }

func (f *fakeCMS) ListUsers(context.Context) ([]domain.User, error) { return f.users, nil }

func (f *fakeCMS) UpdateUserRole(_ context.Context, id string, roleID int) (domain.User, error) {
	if f.updated == nil {
		f.updated = map[string]int{}
	}
	f.updated[id] = roleID
	return domain.User{ID: id, Role: domain.RoleStudent, RoleID: roleID}, nil
}

func sampleUsers() []domain.User {
	return []domain.User{
		{ID: "1", Name: "boss", Email: "boss@x.io", Role: domain.RoleContentManager},
		{ID: "5", Name: "ana", Email: "ana@x.io", Role: domain.RoleStudent},
		{ID: "8", Name: "cy", Email: "cy@x.io", Role: domain.RoleNormalUser},
	}
}

func TestExecuteListsFilteredUsers(t *testing.T) {
	f := &fakeCMS{users: sampleUsers()}
	var out bytes.Buffer

	if err := execute(context.Background(), f, mappers.DefaultRoleIDs(), options{role: "student"}, &out); err != nil {
		t.Fatalf("execute: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "ana@x.io") {
		t.Errorf("Expected ana in output, got:\n%s", got)
	}
	if strings.Contains(got, "cy@x.io") || strings.Contains(got, "boss@x.io") {
		t.Errorf("Expected only students, got:\n%s", got)
	}
}

func TestExecuteUnknownRole(t *testing.T) {
	f := &fakeCMS{users: sampleUsers()}
	if err := execute(context.Background(), f, nil, options{role: "admin"}, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for unknown role filter")
	}
}

func TestSetRole(t *testing.T) {
	tests := []struct {
		name       string
		me         domain.User
		setRole    string
		dryRun     bool
		wantErr    error
		wantUpdate bool
	}{
		{"manager updates", domain.User{ID: "1", Role: domain.RoleContentManager}, "8:student", false, nil, true},
		{"dry run", domain.User{ID: "1", Role: domain.RoleContentManager}, "8:student", true, nil, false},
		{"student refused", domain.User{ID: "5", Role: domain.RoleStudent}, "8:student", false, commands.ErrForbidden, false},
		{"dry run refused", domain.User{ID: "5", Role: domain.RoleStudent}, "8:student", true, commands.ErrForbidden, false},
		{"own role", domain.User{ID: "1", Role: domain.RoleContentManager}, "1:student", false, commands.ErrForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeCMS{me: tt.me, users: sampleUsers()}
			opts := options{setRole: tt.setRole, dryRun: tt.dryRun}

			err := execute(context.Background(), f, mappers.DefaultRoleIDs(), opts, &bytes.Buffer{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("execute: %v", err)
			}

			if _, ok := f.updated["8"]; ok != tt.wantUpdate {
				t.Errorf("Expected update=%v, got %v", tt.wantUpdate, f.updated)
			}
		})
	}
}

func TestSetRoleBadFormat(t *testing.T) {
	f := &fakeCMS{me: domain.User{ID: "1", Role: domain.RoleContentManager}}
	if err := execute(context.Background(), f, nil, options{setRole: "nocolon"}, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for malformed -set-role")
	}
}
