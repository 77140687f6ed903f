package authz

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"coursehub/internal/domain"
)

// State is where a Gate is in its decision.
type State int

const (
	Unknown State = iota
	Checking
	Authorized
	Unauthorized
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Checking:
		return "checking"
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// RoleSource looks up the signed-in user with their role. The CMS client
// bound to the session token satisfies it.
type RoleSource interface {
	Me(ctx context.Context) (domain.User, error)
}

// Gate decides one page view. A Gate is built per request and never reused,
// so the decision is recomputed on every visit.
type Gate struct {
	Page Page
	Log  *zap.Logger

	state State
	user  domain.User
	trail []State
}

func NewGate(page Page, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{Page: page, Log: logger, state: Unknown, trail: []State{Unknown}}
}

// State returns the current state.
func (g *Gate) State() State { return g.state }

// Trail returns every state the gate went through, in order.
func (g *Gate) Trail() []State {
	out := make([]State, len(g.trail))
	copy(out, g.trail)
	return out
}

// Viewer is the resolved user. Before Check it is the zero User.
func (g *Gate) Viewer() domain.User { return g.user }

// Can reports whether the resolved viewer may perform action. It is always
// false unless the gate is Authorized.
func (g *Gate) Can(action Action) bool {
	return g.state == Authorized && Can(g.user.Role, action)
}

func (g *Gate) move(s State) {
	g.state = s
	g.trail = append(g.trail, s)
}

// Check resolves the viewer's role through src and decides the page. A nil
// src means there is no session token. Any lookup failure is treated as an
// unregistered viewer; the error is returned for logging only.
func (g *Gate) Check(ctx context.Context, src RoleSource) (State, error) {
	if g.state != Unknown {
		return g.state, nil
	}
	g.move(Checking)

	user, err := ResolveViewer(ctx, src)
	g.user = user

	if Can(user.Role, g.Page.View) {
		g.move(Authorized)
	} else {
		g.move(Unauthorized)
	}

	g.Log.Debug("page gate",
		zap.String("page", g.Page.Name),
		zap.String("role", user.Role.String()),
		zap.String("state", g.state.String()),
		zap.Error(err))
	return g.state, err
}

// ResolveViewer returns the signed-in user. Without a source, or when the
// lookup fails, the viewer is an unregistered visitor.
func ResolveViewer(ctx context.Context, src RoleSource) (domain.User, error) {
	anon := domain.User{Role: domain.RoleUnregistered}
	if src == nil {
		return anon, nil
	}
	u, err := src.Me(ctx)
	if err != nil {
		return anon, err
	}
	if !u.Role.Valid() {
		u.Role = domain.RoleUnregistered
	}
	return u, nil
}
