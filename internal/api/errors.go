package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response surfaced to the caller. StatusCode is 0 for
// transport failures that never produced a response. Detail carries the
// backend's error message when the payload had one; Body is the raw
// payload for callers that need more.
type Error struct {
	StatusCode int
	Detail     string
	Body       []byte
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %s", e.Detail)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", http.StatusText(e.StatusCode), e.Detail)
	}
	return http.StatusText(e.StatusCode)
}

// IsUnauthorized reports whether err is an HTTP 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// newError builds an Error from a response body, extracting the
// FastAPI-style {"detail": "..."} message when present.
func newError(status int, body []byte) *Error {
	e := &Error{StatusCode: status, Body: body}
	var payload struct {
		Detail string `json:"detail"`
		Err    string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Detail != "" {
			e.Detail = payload.Detail
		} else if payload.Err != "" {
			e.Detail = payload.Err
		}
	}
	return e
}
