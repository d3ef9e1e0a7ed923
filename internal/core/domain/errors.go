package domain

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindInvalidID
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindConflict:
		return "ConflictError"
	case KindNotFound:
		return "NotFoundError"
	case KindInvalidID:
		return "InvalidIdentifierError"
	default:
		return "InternalError"
	}
}

// Error is the single error type produced by task operations. Kind decides
// how the failure is reported; Err keeps the underlying cause for internal
// failures.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind, and on message too when the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	return t.Message == "" || t.Message == e.Message
}

var (
	ErrTitleRequired      = &Error{Kind: KindValidation, Message: "Title is required."}
	ErrTitleTooLong       = &Error{Kind: KindValidation, Message: fmt.Sprintf("Title cannot exceed %d characters.", TitleMaxLength)}
	ErrDescriptionTooLong = &Error{Kind: KindValidation, Message: fmt.Sprintf("Description cannot exceed %d characters.", DescriptionMaxLength)}
	ErrInvalidStatus      = &Error{Kind: KindValidation, Message: "Invalid status value."}
	ErrInvalidDeadline    = &Error{Kind: KindValidation, Message: "Invalid deadline value."}
	ErrInvalidBody        = &Error{Kind: KindValidation, Message: "Invalid request body."}

	ErrNotFound  = &Error{Kind: KindNotFound, Message: "Task not found."}
	ErrInvalidID = &Error{Kind: KindInvalidID, Message: "Invalid task ID format."}

	// ErrConflict matches any conflict regardless of title and status.
	ErrConflict = &Error{Kind: KindConflict}
)

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewConflictError(title string, status TaskStatus) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("Task with title %q already exists in the %q group.", title, status),
	}
}

func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf classifies any error; foreign errors are internal.
func KindOf(err error) ErrorKind {
	var domainErr *Error

	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}

	return KindInternal
}
