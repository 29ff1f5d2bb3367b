package prefs

import "errors"

var (
	ErrInvalidPreferences = errors.New("invalid sync preferences")
	ErrReadingPreferences = errors.New("error reading preferences file")
	ErrWritingPreferences = errors.New("error writing preferences file")
)
