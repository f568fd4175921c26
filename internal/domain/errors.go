package domain

import "errors"

// ErrorKind classifies a business failure independently of the entity involved.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindDuplicateResource
	KindInvalidInput
	KindForbiddenOperation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindDuplicateResource:
		return "duplicate resource"
	case KindInvalidInput:
		return "invalid input"
	case KindForbiddenOperation:
		return "forbidden operation"
	default:
		return "unknown error"
	}
}

// Error is a business failure of a given kind.
//
// errors.Is(err, ErrNotFound) reports true for any *Error of kind KindNotFound, so callers
// can match either the kind or a specific named sentinel such as repository.ErrUserNotFound.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is matches kind-only targets (the Err* values below).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrDuplicateResource  = &Error{Kind: KindDuplicateResource}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrForbiddenOperation = &Error{Kind: KindForbiddenOperation}
)

func NotFound(msg string) error           { return &Error{Kind: KindNotFound, Message: msg} }
func DuplicateResource(msg string) error  { return &Error{Kind: KindDuplicateResource, Message: msg} }
func InvalidInput(msg string) error       { return &Error{Kind: KindInvalidInput, Message: msg} }
func ForbiddenOperation(msg string) error { return &Error{Kind: KindForbiddenOperation, Message: msg} }

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
