package discord

import "eventbot/internal/domain"

// GenericErrorKey is the translation key used for errors without a domain code.
const GenericErrorKey = "errors.generic"

// ErrorKey returns the translation key of the user-facing message for err.
func ErrorKey(err error) string {
	if code := domain.Code(err); code != "" {
		return "errors." + code
	}
	return GenericErrorKey
}
