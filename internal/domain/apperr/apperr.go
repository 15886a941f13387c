// Package apperr holds the error kinds every domain package wraps.
// Callers match a kind with errors.Is and never inspect messages.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrAlreadyDecided = errors.New("already decided")
	ErrInvalidLoan    = errors.New("invalid loan")
	ErrConflict       = errors.New("conflict")
	ErrUnauthorized   = errors.New("unauthorized")
)

// Kind is the taxonomy bucket of an error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindAlreadyDecided
	KindInvalidLoan
	KindConflict
	KindUnauthorized
)

var kinds = []struct {
	sentinel error
	kind     Kind
}{
	{ErrValidation, KindValidation},
	{ErrNotFound, KindNotFound},
	{ErrForbidden, KindForbidden},
	{ErrAlreadyDecided, KindAlreadyDecided},
	{ErrInvalidLoan, KindInvalidLoan},
	{ErrConflict, KindConflict},
	{ErrUnauthorized, KindUnauthorized},
}

// KindOf reports the first matching kind, or KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInternal
}

// Validation wraps ErrValidation with a user-facing message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Forbidden wraps ErrForbidden with a user-facing message.
func Forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// Message strips the kind prefix so the text is safe to return to clients.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, k := range kinds {
		prefix := k.sentinel.Error() + ": "
		if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
