package ai

import (
	"errors"
	"fmt"
)

// Kind classifies a failed AI operation so callers can branch on it.
type Kind string

const (
	// KindUnavailable means no provider credential is configured. No call
	// was attempted and retrying will not help.
	KindUnavailable Kind = "unavailable"
	// KindTransport means the completion endpoint failed.
	KindTransport Kind = "transport"
	// KindParse means the reply was not valid JSON.
	KindParse Kind = "parse"
	// KindInvalidShape means the reply parsed but did not match the shape.
	KindInvalidShape Kind = "invalid_shape"
	// KindNotFound means a catalog lookup (template, criteria, concept,
	// kit) failed. No call was attempted.
	KindNotFound Kind = "not_found"
)

// Error is the error type returned by the client and the orchestrators.
// Message is safe to show to a teacher.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ErrUnavailable is returned when no provider is configured.
var ErrUnavailable = &Error{Kind: KindUnavailable, Message: "AI service not available"}

// NotFound builds a lookup failure, e.g. NotFound("Template not found").
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the user-facing text of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
