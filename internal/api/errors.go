package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrNoID is returned when an operation needs a persisted entity.
var ErrNoID = errors.New("entity has no id")

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsTransient reports whether err is worth retrying: network failures,
// timeouts, 5xx and 429 responses. Cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError || statusErr.Code == http.StatusTooManyRequests
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Describe turns an error into a short message for the status line.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var statusErr *StatusError
	switch {
	case errors.Is(err, context.Canceled):
		return "Request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Server returned %d %s", statusErr.Code, http.StatusText(statusErr.Code))
	case errors.Is(err, ErrNoID):
		return "Record has not been saved yet"
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "Request timed out"
		}
		return "API unreachable"
	}
	return err.Error()
}
