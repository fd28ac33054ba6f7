// Package errors provides standardized error handling patterns for rom
// lifecycle components. It includes error classification, standard error
// variables, and helper functions for consistent error wrapping and
// classification across the setup and finalize phases.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorConfig represents errors in configuration structure or lifecycle
	// ordering (frozen mutation, duplicate gateway, missing default adapter)
	ErrorConfig ErrorClass = iota
	// ErrorIdentity represents errors in component identity resolution
	// (duplicate resolved ids, missing relation back-references)
	ErrorIdentity
	// ErrorLookup represents "not found" conditions on the read surface
	// (unknown gateway, dataset, view method or event)
	ErrorLookup
	// ErrorPlugin represents errors applying or resolving plugins
	ErrorPlugin
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorConfig:
		return "config"
	case ErrorIdentity:
		return "identity"
	case ErrorLookup:
		return "lookup"
	case ErrorPlugin:
		return "plugin"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Configuration lifecycle errors
	ErrFrozen           = errors.New("configuration is frozen")
	ErrFinalized        = errors.New("configuration already finalized")
	ErrNotFinalized     = errors.New("configuration not finalized")
	ErrInvalidState     = errors.New("invalid lifecycle state")
	ErrNoDefaultAdapter = errors.New("no default adapter resolvable")
	ErrDuplicateGateway = errors.New("gateway already defined")
	ErrInvalidGateway   = errors.New("invalid gateway definition")
	ErrInvalidConfig    = errors.New("invalid configuration")

	// Identity errors
	ErrDuplicateID     = errors.New("duplicate component identity")
	ErrMissingRelation = errors.New("relation back-reference not registered")
	ErrUnresolvedID    = errors.New("component identity could not be resolved")

	// Lookup errors
	ErrGatewayNotFound = errors.New("gateway not found")
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrAdapterNotFound = errors.New("adapter not found")
	ErrUnknownEvent    = errors.New("event not registered")
	ErrUnknownView     = errors.New("unknown view method")
	ErrNotFound        = errors.New("not found")

	// Plugin errors
	ErrUnknownPlugin = errors.New("unknown plugin")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsConfig checks if an error is a configuration lifecycle error
func IsConfig(err error) bool {
	return hasClass(err, ErrorConfig) ||
		errors.Is(err, ErrFrozen) ||
		errors.Is(err, ErrFinalized) ||
		errors.Is(err, ErrNoDefaultAdapter) ||
		errors.Is(err, ErrDuplicateGateway) ||
		errors.Is(err, ErrInvalidConfig)
}

// IsIdentity checks if an error is a component identity error
func IsIdentity(err error) bool {
	return hasClass(err, ErrorIdentity) ||
		errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrMissingRelation) ||
		errors.Is(err, ErrUnresolvedID)
}

// IsNotFound checks if an error is a "not found" lookup condition.
// This is distinguishable from "no such operation": every read accessor
// on the finalized surface reports missing names through this class.
func IsNotFound(err error) bool {
	return hasClass(err, ErrorLookup) ||
		errors.Is(err, ErrGatewayNotFound) ||
		errors.Is(err, ErrDatasetNotFound) ||
		errors.Is(err, ErrAdapterNotFound) ||
		errors.Is(err, ErrUnknownEvent) ||
		errors.Is(err, ErrUnknownView) ||
		errors.Is(err, ErrNotFound)
}

// IsPlugin checks if an error is a plugin resolution or application error
func IsPlugin(err error) bool {
	return hasClass(err, ErrorPlugin) || errors.Is(err, ErrUnknownPlugin)
}

func hasClass(err error, class ErrorClass) bool {
	if err == nil {
		return false
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == class
	}
	return false
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	switch {
	case IsIdentity(err):
		return ErrorIdentity
	case IsNotFound(err):
		return ErrorLookup
	case IsPlugin(err):
		return ErrorPlugin
	default:
		return ErrorConfig
	}
}

// newClassified creates a new classified error
// This is an internal helper - use WrapConfig(), WrapIdentity(),
// WrapLookup() or WrapPlugin() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapConfig wraps an error as a configuration error with context
func WrapConfig(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorConfig, wrappedErr, component, method, wrappedErr.Error())
}

// WrapIdentity wraps an error as an identity error with context
func WrapIdentity(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorIdentity, wrappedErr, component, method, wrappedErr.Error())
}

// WrapLookup wraps an error as a lookup error with context
func WrapLookup(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorLookup, wrappedErr, component, method, wrappedErr.Error())
}

// WrapPlugin wraps an error as a plugin error with context
func WrapPlugin(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorPlugin, wrappedErr, component, method, wrappedErr.Error())
}

// New returns an error that formats as the given text.
// Re-exported so lifecycle packages don't need both this package and the
// standard library errors package for simple sentinel construction.
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
