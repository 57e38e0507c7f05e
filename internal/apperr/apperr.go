// Package apperr provides classified errors for service boundaries.
//
// Most code wraps errors with fmt.Errorf and %w; apperr is used where a
// caller needs to branch on the failure class (CLI exit codes, the watch
// coordinator deciding whether a cycle failure is fatal).
package apperr

import (
	"errors"
	"fmt"
)

// Category classifies an error by the subsystem and failure mode.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryDocument Category = "document"
	CategoryBuild    Category = "build"
	CategoryIndex    Category = "index"
	CategoryWatch    Category = "watch"
	CategoryInternal Category = "internal"
)

// Severity indicates how a caller should treat the error.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// Error is a structured error with category and severity.
type Error struct {
	category Category
	severity Severity
	message  string
	cause    error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Category() Category { return e.category }
func (e *Error) Severity() Severity { return e.severity }
func (e *Error) Message() string    { return e.message }

// Builder provides a fluent API for creating Error values.
type Builder struct {
	err Error
}

// New starts a builder with the given category and message.
func New(category Category, message string) *Builder {
	return &Builder{err: Error{category: category, severity: SeverityError, message: message}}
}

// Wrap starts a builder that wraps an existing error.
func Wrap(err error, category Category, message string) *Builder {
	return &Builder{err: Error{category: category, severity: SeverityError, message: message, cause: err}}
}

// Warning sets the severity to warning.
func (b *Builder) Warning() *Builder {
	b.err.severity = SeverityWarning
	return b
}

// Fatal sets the severity to fatal.
func (b *Builder) Fatal() *Builder {
	b.err.severity = SeverityFatal
	return b
}

// Build returns the final error.
func (b *Builder) Build() *Error {
	e := b.err
	return &e
}

// CategoryOf returns the category of err if it carries one, or
// CategoryInternal otherwise.
func CategoryOf(err error) Category {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Category()
	}
	return CategoryInternal
}

// IsFatal reports whether err carries fatal severity.
func IsFatal(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Severity() == SeverityFatal
}
