package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Token carrier names per record kind. Each kind checks its primary
// header, then a JSON body field, then a query parameter.
const (
	accessTokenHeader = "Authorization"
	accessTokenAlt    = "Access-Token"
	accessTokenField  = "access_token"

	sessionTokenHeader = "Session-Token"
	sessionTokenField  = "session_token"

	stepTokenHeader = "Step-Token"
	stepTokenField  = "step_token"
)

// maxTokenBodyBytes bounds how much of a request body the extractor
// will buffer while looking for a token field.
const maxTokenBodyBytes = 1 << 20

// extractAccessToken pulls the access token out of the request.
// The Authorization header accepts both bare tokens and the Bearer
// scheme.
func extractAccessToken(r *http.Request) string {
	if v := r.Header.Get(accessTokenHeader); v != "" {
		return strings.TrimSpace(strings.TrimPrefix(v, "Bearer "))
	}
	if v := r.Header.Get(accessTokenAlt); v != "" {
		return v
	}
	return extractFromBodyOrQuery(r, accessTokenField)
}

// extractSessionToken pulls the session token out of the request.
func extractSessionToken(r *http.Request) string {
	if v := r.Header.Get(sessionTokenHeader); v != "" {
		return v
	}
	return extractFromBodyOrQuery(r, sessionTokenField)
}

// extractStepToken pulls the step token out of the request.
func extractStepToken(r *http.Request) string {
	if v := r.Header.Get(stepTokenHeader); v != "" {
		return v
	}
	return extractFromBodyOrQuery(r, stepTokenField)
}

// extractFromBodyOrQuery looks for a string field in a JSON body, then
// in the query string. The body is buffered and restored so the
// handler can still read it.
func extractFromBodyOrQuery(r *http.Request, field string) string {
	if v := extractFromJSONBody(r, field); v != "" {
		return v
	}
	return r.URL.Query().Get(field)
}

func extractFromJSONBody(r *http.Request, field string) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxTokenBodyBytes))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	v, _ := body[field].(string)
	return v
}
