package model

import "errors"

// ErrInvalidEnum is returned when a categorical value is outside its closed set.
var ErrInvalidEnum = errors.New("invalid enum value")
