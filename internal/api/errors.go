package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the server rejects the session token.
var ErrUnauthorized = errors.New("api: unauthorized")

// RequestError wraps a transport-level failure: the request never got a
// usable response. The UI shows these as a retryable "something went
// wrong" state; the client itself never retries.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("api: %s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// RejectedError is a validation failure surfaced by the server (a 4xx with
// a detail body). It is shown in place; nothing navigates or closes.
type RejectedError struct {
	Status int
	Detail string
}

func (e *RejectedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: server rejected request (status %d)", e.Status)
	}
	return fmt.Sprintf("api: server rejected request: %s", e.Detail)
}
