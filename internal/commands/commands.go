// Package commands runs CMS mutations on behalf of a page. A command names
// the action it needs; the Dispatcher checks it against the viewer's role,
// sends the request and, only once the CMS has accepted it, applies the
// result to the page State.
package commands

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"coursehub/internal/authz"
	"coursehub/internal/domain"
	"coursehub/internal/mappers"
	"coursehub/internal/providers"
)

// ErrForbidden is returned when the viewer may not run a command.
var ErrForbidden = errors.New("commands: not allowed")

// ValidationError reports bad input. Nothing was sent to the CMS.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// State is the data a page shows. Commands change it only after success.
type State struct {
	Courses     []domain.Course
	Users       []domain.User
	Enrollments []domain.Enrollment
}

// Env is what a command can see while it runs.
type Env struct {
	CMS     providers.Mutator
	Viewer  domain.User
	RoleIDs mappers.RoleIDs
}

// Apply changes the page state with a confirmed result.
type Apply func(*State)

// Command is one mutation.
type Command interface {
	Kind() string
	Action() authz.Action
	// Prepare sanitizes and validates the input in place.
	Prepare(clean Cleaner, env Env) error
	// Execute performs the request. st is read-only here.
	Execute(ctx context.Context, env Env, st *State) (Apply, error)
}

// Cleaner strips markup from free text.
type Cleaner func(string) string

// StrictCleaner removes all markup and returns plain text.
func StrictCleaner() Cleaner {
	p := bluemonday.StrictPolicy()
	return func(s string) string {
		return strings.TrimSpace(html.UnescapeString(p.Sanitize(s)))
	}
}

// Dispatcher runs commands for one viewer on one page.
type Dispatcher struct {
	Env   Env
	Page  authz.Page
	Clean Cleaner
	Log   *zap.Logger
}

func NewDispatcher(cms providers.Mutator, viewer domain.User, roles mappers.RoleIDs, page authz.Page, logger *zap.Logger) *Dispatcher {
	if roles == nil {
		roles = mappers.DefaultRoleIDs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		Env:   Env{CMS: cms, Viewer: viewer, RoleIDs: roles},
		Page:  page,
		Clean: StrictCleaner(),
		Log:   logger,
	}
}

// Dispatch runs cmd and applies its result to st. On any error st is left
// untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command, st *State) error {
	action := cmd.Action()
	if !d.Page.Allows(action) || !authz.Can(d.Env.Viewer.Role, action) {
		d.Log.Warn("command refused",
			zap.String("command", cmd.Kind()),
			zap.String("role", d.Env.Viewer.Role.String()),
			zap.String("page", d.Page.Name))
		return fmt.Errorf("%s: %w", cmd.Kind(), ErrForbidden)
	}

	if err := cmd.Prepare(d.Clean, d.Env); err != nil {
		return err
	}

	apply, err := cmd.Execute(ctx, d.Env, st)
	if err != nil {
		d.Log.Info("command failed",
			zap.String("command", cmd.Kind()),
			zap.String("user_id", d.Env.Viewer.ID),
			zap.Error(err))
		return err
	}

	if apply != nil && st != nil {
		apply(st)
	}
	d.Log.Info("command applied",
		zap.String("command", cmd.Kind()),
		zap.String("user_id", d.Env.Viewer.ID))
	return nil
}

func required(clean Cleaner, field string, v *string) error {
	*v = clean(*v)
	if *v == "" {
		return invalid(field, "is required")
	}
	return nil
}

func requiredID(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid(field, "is required")
	}
	return nil
}

func findCourse(st *State, id string) int {
	for i, c := range st.Courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func findUser(st *State, id string) int {
	for i, u := range st.Users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
