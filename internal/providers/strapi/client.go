package strapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"coursehub/internal/httpx"
	"coursehub/internal/mappers"
)

// ErrNoToken is returned by calls that need a signed-in user when the client
// carries no token.
var ErrNoToken = errors.New("strapi: missing bearer token")

// Client talks to the CMS REST API. A Client is cheap to copy; WithToken
// returns a per-request copy carrying the caller's bearer token.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Token   string
	Roles   mappers.RoleIDs
	Log     *zap.Logger
}

func New(baseURL string, timeout time.Duration, roles mappers.RoleIDs, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if roles == nil {
		roles = mappers.DefaultRoleIDs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	tr := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
		Roles: roles,
		Log:   logger,
	}
}

// WithToken returns a copy of c that authenticates as token. An empty token
// makes public (unauthenticated) requests.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

// Error is what every client call returns on failure. Error() is exactly the
// CMS message when the CMS sent one, otherwise a fixed per-operation text.
type Error struct {
	Op      string
	Status  int // 0 for transport failures
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func fail(op, fallback string, err error) *Error {
	e := &Error{Op: op, Message: fallback, Err: err}
	var herr *httpx.HTTPError
	if errors.As(err, &herr) {
		e.Status = herr.StatusCode
		if msg := herr.Message(); msg != "" {
			e.Message = msg
		}
	}
	return e
}

// send performs one CMS call and returns the raw body.
func (c *Client) send(ctx context.Context, op, fallback, method, path string, query url.Values, payload any) ([]byte, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	start := time.Now()
	resp, body, err := httpx.Do(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		return httpx.NewJSONRequest(ctx, method, u, payload, c.Token)
	})

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.logger().Debug("cms call",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Bool("authenticated", c.Token != ""),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))

	if err != nil {
		return nil, fail(op, fallback, err)
	}
	return body, nil
}

func (c *Client) requireToken(op string) error {
	if c.Token == "" {
		return &Error{Op: op, Status: http.StatusUnauthorized, Message: "Not signed in", Err: ErrNoToken}
	}
	return nil
}

func (c *Client) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// relationRef sends numeric ids as numbers and anything else (documentIds)
// as strings, which is what connect/disconnect accept.
func relationRef(id string) any {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	return id
}

func relationRefs(ids []string) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, relationRef(id))
	}
	return out
}

func populate(rel ...string) url.Values {
	q := url.Values{}
	if len(rel) == 1 {
		q.Set("populate", rel[0])
		return q
	}
	for i, r := range rel {
		q.Set("populate["+strconv.Itoa(i)+"]", r)
	}
	return q
}
