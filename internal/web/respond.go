package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"coursehub/internal/commands"
	"coursehub/internal/providers/strapi"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// badRequest is a client input problem found before any CMS call.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

// unsupportedMedia is a mutation body that is not application/json.
type unsupportedMedia struct{ got string }

func (e unsupportedMedia) Error() string {
	if e.got == "" {
		return "Content-Type must be application/json"
	}
	return "Content-Type must be application/json, got " + e.got
}

// statusFor maps an error to the response status: validation 400, wrong
// body type 415, dispatcher refusal 403, CMS 4xx passed through, else 502.
func statusFor(err error) int {
	var verr *commands.ValidationError
	var breq badRequest
	var umt unsupportedMedia
	var cerr *strapi.Error
	switch {
	case errors.As(err, &verr), errors.As(err, &breq):
		return http.StatusBadRequest
	case errors.As(err, &umt):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, commands.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &cerr) && cerr.Status >= 400 && cerr.Status < 500:
		return cerr.Status
	}
	return http.StatusBadGateway
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}

	var verr *commands.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}
	if errors.Is(err, commands.ErrForbidden) {
		body.Error = "You are not allowed to do that"
	}

	lvl := s.Log.Info
	if status >= 500 {
		lvl = s.Log.Warn
	}
	lvl("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err))

	writeJSON(w, status, body)
}

func mediaType(r *http.Request) string {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct
}

// decodeBody reads a JSON body into dst. Any other media type is refused so a
// cross-site text/plain form cannot smuggle a JSON payload.
func decodeBody(r *http.Request, dst any) error {
	if ct := mediaType(r); ct != "application/json" {
		return unsupportedMedia{got: ct}
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest{"request body is empty"}
		}
		return badRequest{fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return nil
}

// formValues reads a flat set of string fields from a JSON object or a
// url-encoded/multipart form.
func formValues(r *http.Request, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))

	if mediaType(r) == "application/json" {
		raw := map[string]any{}
		if err := decodeBody(r, &raw); err != nil {
			return nil, err
		}
		for _, k := range keys {
			if v, ok := raw[k].(string); ok {
				out[k] = v
			}
		}
		return out, nil
	}

	r.Body = io.NopCloser(io.LimitReader(r.Body, maxBodyBytes))
	if err := r.ParseForm(); err != nil {
		return nil, badRequest{"invalid form body"}
	}
	for _, k := range keys {
		out[k] = r.PostFormValue(k)
	}
	return out, nil
}

func requireFields(vals map[string]string, keys ...string) error {
	for _, k := range keys {
		if strings.TrimSpace(vals[k]) == "" {
			return badRequest{k + " is required"}
		}
	}
	return nil
}
