package activity

import "errors"

// ErrInvalidInput is returned for a nil or incomplete activity entry.
var ErrInvalidInput = errors.New("invalid activity input")
