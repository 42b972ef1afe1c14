// Package errors provides a lightweight structured error type (CoursegenError)
// for category-based classification in the build pipeline and CLI.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a coursegen error for classification.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Content authoring errors
	CategoryContent ErrorCategory = "content"
	CategoryLink    ErrorCategory = "link"

	// Build and processing errors
	CategoryBuild      ErrorCategory = "build"
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryStorage  ErrorCategory = "storage"
	CategoryServe    ErrorCategory = "serve"
	CategoryGit      ErrorCategory = "git"
	CategoryEvents   ErrorCategory = "events"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// CoursegenError is a structured error with category, severity, and context.
type CoursegenError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for CoursegenError.
type ContextFields map[string]any

// Error implements the error interface.
func (e *CoursegenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As chains.
func (e *CoursegenError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *CoursegenError) WithContext(key string, value any) *CoursegenError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new CoursegenError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *CoursegenError {
	return &CoursegenError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new CoursegenError that wraps an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *CoursegenError {
	return &CoursegenError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category ErrorCategory) bool {
	var ce *CoursegenError
	if stderrors.As(err, &ce) {
		return ce.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// for foreign errors.
func GetCategory(err error) ErrorCategory {
	var ce *CoursegenError
	if stderrors.As(err, &ce) {
		return ce.Category
	}
	return CategoryInternal
}
