package upstream

import (
	"fmt"
	"net/http"
)

// StatusError is a non-2xx answer from the upstream API.
type StatusError struct {
	Method string
	Path   string
	Status int
	// Message is the envelope error when the body had one, else the raw body.
	Message string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: upstream returned %d: %s", e.Method, e.Path, e.Status, msg)
}

// StatusCode lets the resilience layer decide whether to retry.
func (e *StatusError) StatusCode() int {
	return e.Status
}
