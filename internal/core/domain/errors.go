package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthRejected       = errors.New("authentication rejected")
	ErrMalformedResponse  = errors.New("malformed response from authority")
	ErrUnavailable        = errors.New("authority unavailable")
	ErrCorruptIdentity    = errors.New("persisted identity is corrupt")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("validation failed")
	ErrSelfModification   = errors.New("operators cannot delete or deactivate their own account")
)

// UserMessage returns the text shown to the operator for a failed action.
// Authority-supplied messages are not echoed for credential failures so the
// wording stays stable across backends.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, ErrMalformedResponse):
		return "Login failed - invalid response format"
	case errors.Is(err, ErrUnavailable):
		return "Network error occurred"
	case errors.Is(err, ErrAuthRejected), errors.Is(err, ErrNotAuthenticated):
		return "Your session has expired, please sign in again"
	case errors.Is(err, ErrForbidden):
		return "You don't have permission to access this page."
	default:
		return err.Error()
	}
}
