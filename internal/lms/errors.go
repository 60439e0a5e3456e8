package lms

import "fmt"

// AuthError means the credential is missing, expired or rejected. By the
// time a caller sees one, the session store has already been cleared; the
// only recovery is logging in again.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "lms: session expired or invalid, please log in again"
	}
	return "lms: " + e.Reason
}

// NotFoundError is a stale id reference: a course, section, lecture or
// assessment that no longer exists on the server.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("lms: %s not found", e.What)
}

// ServerError is a 5xx from the course service, with whatever message the
// service put in the response envelope.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lms: server error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("lms: server error (status %d): %s", e.StatusCode, e.Message)
}
