package domain

import "errors"

// ErrInvalidMeasurement is returned when a target reports missing or non-finite geometry.
var ErrInvalidMeasurement = errors.New("invalid measurement")

// ErrTourNotFound is returned when a tour key has never been seen by the store.
var ErrTourNotFound = errors.New("tour not found")

// ErrStepNotFound is returned when a step name is not registered under a tour.
var ErrStepNotFound = errors.New("step not found")

// ErrStoreClosed is returned by operations on a store that has been torn down.
var ErrStoreClosed = errors.New("store closed")

// ErrUnsupportedScroller is returned when a scroll reference exposes neither scroll variant.
var ErrUnsupportedScroller = errors.New("unsupported scroll container")
