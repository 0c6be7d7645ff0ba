// Package apperr tags errors with a kind so callers can tell invalid input
// from missing records and from infrastructure failures worth retrying.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindTransient
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	case KindUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(op, message string) error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

func NotFound(op, message string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

func Conflict(op, message string) error {
	return &Error{Kind: KindConflict, Op: op, Message: message}
}

func Unauthorized(op, message string) error {
	return &Error{Kind: KindUnauthorized, Op: op, Message: message}
}

// Transient wraps an infrastructure failure. A nil err returns nil.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindTransient, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the caller-facing text of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if e.Kind == KindTransient {
			return "service temporarily unavailable"
		}
	}
	return err.Error()
}

func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

// Retryable is true only for transient infrastructure errors; unknown errors
// are treated as fatal.
func Retryable(err error) bool { return KindOf(err) == KindTransient }
