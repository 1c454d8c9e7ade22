package core

import (
	"errors"

	"github.com/signalsfoundry/aquila-performance/model"
)

var (
	// ErrOutOfRange is returned when an input lies outside the calibrated
	// range of a chart and no data exists to read it.
	ErrOutOfRange = errors.New("input out of calibrated range")
	// ErrInvalidInput is returned for non-finite numbers and negative speeds.
	ErrInvalidInput = errors.New("invalid performance input")
	// ErrInvalidEnum aliases model.ErrInvalidEnum so callers of this package
	// can match categorical failures without importing model.
	ErrInvalidEnum = model.ErrInvalidEnum
)
