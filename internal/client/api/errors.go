package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired is returned when the server rejected the access token
// and the session could not be recovered by a refresh.
var ErrSessionExpired = errors.New("session expired")

const defaultErrorMessage = "API request failed"

// RequestError is a non-success response from the server.
type RequestError struct {
	Status  int
	Message string
}

func newRequestError(status int, body []byte) *RequestError {
	msg := string(body)
	if msg == "" {
		msg = defaultErrorMessage
	}
	return &RequestError{Status: status, Message: msg}
}

func (e *RequestError) Error() string {
	return e.Message
}

// Detail returns the "detail" field of a JSON error body, or the raw message.
func (e *RequestError) Detail() string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(e.Message), &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return e.Message
}

// TransportError wraps a failure to reach the server at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// sessionError carries the server message of the rejected request while
// matching ErrSessionExpired.
type sessionError struct {
	cause *RequestError
}

func (e *sessionError) Error() string {
	return e.cause.Message
}

func (e *sessionError) Is(target error) bool {
	return target == ErrSessionExpired
}

func (e *sessionError) Unwrap() error {
	return e.cause
}

// IsUnauthorized reports whether err is a 401 response from the server.
func IsUnauthorized(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusUnauthorized
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
