// Package helpers carries shared assertions for tests that drive the
// activities HTTP surface.
//
// The API takes everything through the path and query string and answers
// with either a {"message": ...} envelope or an RFC 9457 problem, so the
// helpers here cover exactly those shapes.
package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mergington/activities/internal/model"
)

// ===== Request construction =====

// RequestBuilder assembles requests against the activities routes. The
// API has no JSON request bodies; email and activity name travel in the
// query string and path.
type RequestBuilder struct {
	t      *testing.T
	method string
	path   string
	query  url.Values
}

// NewRequest starts a builder for the given method and path.
func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	t.Helper()
	return &RequestBuilder{
		t:      t,
		method: method,
		path:   path,
		query:  make(url.Values),
	}
}

// WithQuery sets a query parameter.
func (rb *RequestBuilder) WithQuery(key, value string) *RequestBuilder {
	rb.query.Set(key, value)
	return rb
}

// Build produces the request.
func (rb *RequestBuilder) Build() *http.Request {
	rb.t.Helper()

	target := rb.path
	if encoded := rb.query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return httptest.NewRequest(rb.method, target, nil)
}

// RosterPath builds a signup or unregister path with the activity name
// escaped the way a browser would escape it.
func RosterPath(action, activity string) string {
	return "/activities/" + url.PathEscape(activity) + "/" + action
}

// ===== Response assertions =====

// AssertStatus checks the response status code.
func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, want int) {
	t.Helper()
	if resp.Code != want {
		t.Errorf("expected status %d, got %d. Body: %s", want, resp.Code, resp.Body.String())
	}
}

// AssertMessage checks the success envelope, the only shape the API
// returns on 200s: {"message": "..."}.
func AssertMessage(t *testing.T, resp *httptest.ResponseRecorder, want string) {
	t.Helper()

	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	var envelope struct {
		Message string `json:"message"`
	}
	DecodeResponse(t, resp, &envelope)

	if envelope.Message != want {
		t.Errorf("expected message %q, got %q", want, envelope.Message)
	}
}

// AssertProblemDetails validates an RFC 9457 error response and returns
// the decoded problem for further assertions. A zero wantCode skips the
// code check.
func AssertProblemDetails(t *testing.T, resp *httptest.ResponseRecorder, wantStatus int, wantCode model.ErrorCode) *model.ProblemDetails {
	t.Helper()

	AssertStatus(t, resp, wantStatus)
	if ct := resp.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected Content-Type application/problem+json, got %q", ct)
	}

	var problem model.ProblemDetails
	DecodeResponse(t, resp, &problem)

	if problem.Status != wantStatus {
		t.Errorf("expected problem status %d, got %d", wantStatus, problem.Status)
	}
	if wantCode != 0 && problem.Code != wantCode {
		t.Errorf("expected problem code %d, got %d", wantCode, problem.Code)
	}

	return &problem
}

// AssertValidationError checks for a field-level validation error.
func AssertValidationError(t *testing.T, resp *httptest.ResponseRecorder, field string) {
	t.Helper()

	problem := AssertProblemDetails(t, resp, http.StatusBadRequest, model.ErrCodeValidation)

	fields := make([]string, 0, len(problem.Errors))
	for _, fe := range problem.Errors {
		if fe.Field == field {
			return
		}
		fields = append(fields, fe.Field)
	}
	t.Errorf("expected a validation error on %q, got errors on %v", field, fields)
}

// DecodeResponse decodes the response body into v, failing the test on
// malformed JSON.
func DecodeResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, resp.Body.String())
	}
}
