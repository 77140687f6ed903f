package strapi

import (
	"context"
	"net/http"
	"strings"

	"coursehub/internal/domain"
	"coursehub/internal/mappers"
)

// Login exchanges an identifier (username or email) and password for a JWT.
func (c *Client) Login(ctx context.Context, identifier, password string) (Auth, error) {
	const op, fallback = "login", "Failed to log in"
	body, err := c.send(ctx, op, fallback, http.MethodPost, "/api/auth/local", nil, map[string]string{
		"identifier": identifier,
		"password":   password,
	})
	if err != nil {
		return Auth{}, err
	}
	return c.decodeAuth(op, fallback, body)
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, username, email, password string) (Auth, error) {
	const op, fallback = "register", "Failed to register"
	body, err := c.send(ctx, op, fallback, http.MethodPost, "/api/auth/local/register", nil, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Auth{}, err
	}
	return c.decodeAuth(op, fallback, body)
}

// ForgotPassword asks the CMS to mail a reset code.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.send(ctx, "forgot-password", "Failed to send reset email", http.MethodPost, "/api/auth/forgot-password", nil, map[string]string{
		"email": email,
	})
	return err
}

// ResetPassword completes the reset flow with the mailed code.
func (c *Client) ResetPassword(ctx context.Context, code, password, confirmation string) (Auth, error) {
	const op, fallback = "reset-password", "Failed to reset password"
	body, err := c.send(ctx, op, fallback, http.MethodPost, "/api/auth/reset-password", nil, map[string]string{
		"code":                 code,
		"password":             password,
		"passwordConfirmation": confirmation,
	})
	if err != nil {
		return Auth{}, err
	}
	return c.decodeAuth(op, fallback, body)
}

// Me resolves the signed-in user with the role relation populated. This is
// the authoritative role lookup; login responses are not trusted for it.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	const op, fallback = "me", "Failed to fetch current user"
	if err := c.requireToken(op); err != nil {
		return domain.User{}, err
	}

	body, err := c.send(ctx, op, fallback, http.MethodGet, "/api/users/me", populate("role"), nil)
	if err != nil {
		return domain.User{}, err
	}

	raw, ok, err := mappers.DecodeUser(body)
	if err != nil {
		return domain.User{}, fail(op, fallback, err)
	}
	if !ok || raw.ID == "" {
		return domain.User{}, &Error{Op: op, Message: fallback}
	}
	return mappers.ToUser(raw, c.Roles), nil
}

func (c *Client) decodeAuth(op, fallback string, body []byte) (Auth, error) {
	ar, err := mappers.DecodeAuth(body)
	if err != nil {
		return Auth{}, fail(op, fallback, err)
	}
	token := strings.TrimSpace(ar.JWT)
	if token == "" {
		return Auth{}, &Error{Op: op, Message: fallback}
	}
	return Auth{
		Token:     token,
		User:      mappers.ToUser(ar.User, c.Roles),
		RoleKnown: ar.User.Role.Set,
	}, nil
}
