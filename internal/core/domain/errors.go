package domain

import "errors"

// Error kinds. Every error returned by a workflow matches exactly one of these
// through errors.Is, which is what the HTTP layer uses to pick a status code.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
)

// Repository sentinels, translated into kinds by the services.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrChannelNotFound = errors.New("channel not found")
)

// Error is a workflow failure carrying a client-safe message.
type Error struct {
	kind    error
	Message string
	Errors  []string
	cause   error
}

func newError(kind error, msg string, details ...string) *Error {
	if details == nil {
		details = []string{}
	}
	return &Error{kind: kind, Message: msg, Errors: details}
}

func NewValidationError(msg string, details ...string) *Error {
	return newError(ErrValidation, msg, details...)
}

func NewConflictError(msg string, details ...string) *Error {
	return newError(ErrConflict, msg, details...)
}

func NewAuthError(msg string, details ...string) *Error {
	return newError(ErrUnauthorized, msg, details...)
}

func NewNotFoundError(msg string, details ...string) *Error {
	return newError(ErrNotFound, msg, details...)
}

func NewInternalError(msg string, details ...string) *Error {
	return newError(ErrInternal, msg, details...)
}

// Wrap attaches the underlying cause. The cause is logged, never rendered.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool { return target == e.kind }

func (e *Error) Unwrap() error { return e.cause }

// Kind returns the kind sentinel of err, or ErrInternal for anything that is
// not a *Error.
func Kind(err error) error {
	var de *Error
	if errors.As(err, &de) {
		return de.kind
	}
	return ErrInternal
}
