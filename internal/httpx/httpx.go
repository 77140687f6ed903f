package httpx

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// AcceptEncoding is advertised on every request; Do decodes both.
const AcceptEncoding = "br, gzip"

// HTTPError carries status/body for non-2xx responses.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 900))
}

// Message returns the API's own error text, if the body has one. Both
// { "error": { "message": ... } } and { "message": ... } are recognised.
func (e *HTTPError) Message() string {
	return ErrorMessage(e.Body)
}

// ErrorMessage digs a human-readable message out of an error body.
func ErrorMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return ""
	}

	var env struct {
		Error   json.RawMessage `json:"error"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}

	var nested struct {
		Message string `json:"message"`
	}
	if len(env.Error) > 0 && json.Unmarshal(env.Error, &nested) == nil && strings.TrimSpace(nested.Message) != "" {
		return strings.TrimSpace(nested.Message)
	}

	var top string
	if len(env.Message) > 0 && json.Unmarshal(env.Message, &top) == nil {
		return strings.TrimSpace(top)
	}
	return ""
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// Do executes a single request built by buildReq. There are no retries: any
// transport error or non-2xx status is returned to the caller.
// It always reads the full body (even on error) so the underlying TCP
// connection can be reused by http.Transport.
func Do(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
) (*http.Response, []byte, error) {
	req, err := buildReq(ctx)
	if err != nil {
		return nil, nil, err
	}
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", AcceptEncoding)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}

	body, err := readAndClose(resp)
	if err != nil {
		return resp, body, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, body, nil
	}

	return resp, body, &HTTPError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}
}

// readAndClose drains the body, undoing Content-Encoding when the transport
// did not already do it (it only handles gzip it asked for itself).
func readAndClose(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	var r io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		r = brotli.NewReader(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("httpx: gzip body: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(r)
}

// NewJSONRequest builds a request with a JSON body (nil body allowed) and
// the usual headers. An empty token sends no Authorization header.
func NewJSONRequest(ctx context.Context, method, url string, payload any, token string) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	r, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	r.Header.Set("Accept", "application/json")
	if payload != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r, nil
}
