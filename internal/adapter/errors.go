package adapter

import "errors"

var (
	ErrUnauthorized    = errors.New("client unauthorized")
	ErrForbidden       = errors.New("access forbidden")
	ErrBadRequest      = errors.New("batch rejected as malformed")
	ErrTransient       = errors.New("transient transport failure")
	ErrClockSkew       = errors.New("device clock skew exceeds tolerance")
	ErrTokenExpired    = errors.New("access token expired")
	ErrInvalidResponse = errors.New("invalid batch response")
)

// IsFatal reports whether err must abort the whole sync cycle without
// touching the queue. Retrying does not help until the user intervenes
// with a new token or a corrected clock.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrClockSkew) ||
		errors.Is(err, ErrTokenExpired)
}

// IsTransient reports whether err is a timeout, a network failure or a 5xx.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
