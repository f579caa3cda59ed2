package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for the adapters.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindPermission
	KindNotFound
)

// Error is a domain error carrying a stable code, used as the i18n key suffix ("errors.<code>").
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches on code so that wrapped copies compare equal to the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches a cause to a sentinel without losing its code.
func Wrap(sentinel *Error, cause error) error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Cause: cause}
}

// Domain errors.
var (
	ErrTitleRequired        = newError(KindValidation, "title_required", "event title is required")
	ErrTitleTooLong         = newError(KindValidation, "title_too_long", "event title is too long")
	ErrDescriptionTooLong   = newError(KindValidation, "description_too_long", "event description is too long")
	ErrDuplicateTitle       = newError(KindValidation, "duplicate_title", "an event with this title already exists")
	ErrInvalidSlots         = newError(KindValidation, "invalid_slots", "participant limit must be a non-negative number")
	ErrInvalidDate          = newError(KindValidation, "invalid_date", "date could not be resolved")
	ErrDateTimeInPast       = newError(KindValidation, "datetime_in_past", "event date must be in the future")
	ErrInvalidColor         = newError(KindValidation, "invalid_color", "invalid color")
	ErrTooManyRequiredRoles = newError(KindValidation, "too_many_required_roles", "too many required roles")
	ErrEventNotFound        = newError(KindNotFound, "event_not_found", "event not found")
	ErrNotOrganizer         = newError(KindPermission, "not_organizer", "only the organizer or an administrator can do this")
	ErrMissingRequiredRole  = newError(KindPermission, "missing_required_role", "member holds none of the required roles")
)

// Code returns the domain code carried by err, or "" when err is not a domain error.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}
