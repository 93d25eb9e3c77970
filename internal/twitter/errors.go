// ABOUTME: Typed upstream error for the X API with status-code classification.
// ABOUTME: Parses both v2 problem documents and v1.1 error arrays.
package twitter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUserNotFound is returned when a user lookup succeeds at the HTTP level
// but the response carries no user.
var ErrUserNotFound = errors.New("user not found")

// Problem is one entry of an X API error array.
type Problem struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Title   string `json:"title,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Type    string `json:"type,omitempty"`
}

// APIError is returned for every X API response with status >= 400.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
	Problems   []Problem
}

func (e *APIError) Error() string {
	parts := make([]string, 0, 3)
	if e.Title != "" {
		parts = append(parts, e.Title)
	}
	if e.Detail != "" && e.Detail != e.Title {
		parts = append(parts, e.Detail)
	}
	for _, p := range e.Problems {
		msg := p.Message
		if msg == "" {
			msg = p.Detail
		}
		if msg != "" && msg != e.Detail {
			parts = append(parts, msg)
			break
		}
	}
	if len(parts) == 0 {
		parts = append(parts, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("Request failed with code %d: %s", e.StatusCode, strings.Join(parts, ": "))
}

// errorBody covers the v2 problem format and the v1.1 {"errors": [...]} format.
type errorBody struct {
	Title  string    `json:"title"`
	Detail string    `json:"detail"`
	Errors []Problem `json:"errors"`
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Title = parsed.Title
		apiErr.Detail = parsed.Detail
		apiErr.Problems = parsed.Errors
	} else if text := strings.TrimSpace(string(body)); text != "" {
		apiErr.Detail = text
	}
	return apiErr
}

// StatusCode extracts the HTTP status from an error chain, or 0 if none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsInvalidRequest reports whether err is the 400 "Invalid Request" response
// the X API returns for endpoints outside the caller's access tier.
func IsInvalidRequest(err error) bool {
	if err == nil {
		return false
	}
	if StatusCode(err) == http.StatusBadRequest {
		return strings.Contains(err.Error(), "Invalid Request")
	}
	msg := err.Error()
	return strings.Contains(msg, "400") && strings.Contains(msg, "Invalid Request")
}
