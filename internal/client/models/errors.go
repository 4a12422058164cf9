package models

import "errors"

// ErrValidation marks errors detected locally, before any network call.
var ErrValidation = errors.New("validation error")
