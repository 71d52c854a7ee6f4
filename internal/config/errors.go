package config

import (
	"errors"
	"fmt"

	"github.com/dshills/wordlens/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrUnsupportedFormat indicates a settings file extension with no loader.
	ErrUnsupportedFormat = loader.ErrUnsupportedFormat

	// ErrInvalidStorage indicates a storage dump that is not a JSON object.
	ErrInvalidStorage = errors.New("invalid storage dump")

	// ErrInvalidPath indicates an invalid setting path format.
	ErrInvalidPath = errors.New("invalid setting path")

	// ErrValidationFailed indicates a setting value is out of range.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError describes an invalid setting.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Message describes the validation error.
	Message string
	// Value is the invalid value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Is matches ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
