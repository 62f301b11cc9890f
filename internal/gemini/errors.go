package gemini

import (
	"errors"
	"strings"
)

// ErrSafetyBlocked is returned when the provider refused the prompt or
// response on safety grounds.
var ErrSafetyBlocked = errors.New("response blocked by provider safety filter")

// IsTokenLimit reports whether err looks like a context/token budget
// violation, which callers handle by shrinking their input.
func IsTokenLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "token") &&
		(strings.Contains(msg, "exceed") || strings.Contains(msg, "limit") || strings.Contains(msg, "maximum"))
}

// IsSafetyBlock reports whether err indicates a provider safety rejection.
func IsSafetyBlock(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSafetyBlocked) {
		return true
	}
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "SAFETY") || strings.Contains(msg, "PROHIBITED_CONTENT")
}
