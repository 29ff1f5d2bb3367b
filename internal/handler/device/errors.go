package device

import "errors"

var (
	errUnknownLifecycleState = errors.New("lifecycle state must be background or foreground")
	errInvalidJSON           = errors.New("invalid JSON was passed")
)
