// Package estimator implements the numerical core of the engine: the
// MM-style parameter fit for idea quality and judge position bias, bootstrap
// uncertainty estimation, ranking construction, and judge diagnostics.
package estimator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Common errors returned by estimator constructors.
var (
	// ErrEmptyName is returned when attempting to create a component with
	// an empty name.
	ErrEmptyName = errors.New("component name cannot be empty")

	// ErrNilFitter is returned when a bootstrapper is created without a
	// fitter to run per resample.
	ErrNilFitter = errors.New("fitter cannot be nil")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()
