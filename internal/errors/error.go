package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/vango-dev/signals/pkg/reactive"
)

// Category groups error codes by the subsystem that raises them.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryConfig  Category = "config"
	CategoryFetch   Category = "fetch"
	CategoryCLI     Category = "cli"
)

// SignalsError is a structured error with an explanation and a suggestion
// for the person running the program.
type SignalsError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (runtime, config, etc.).
	Category Category

	// Message is the one-line summary.
	Message string

	// Detail explains what went wrong in a full sentence or two.
	Detail string

	// Suggestion tells the reader what to change.
	Suggestion string

	// Example is a short snippet of working code.
	Example string

	// Wrapped is the cause, or nil.
	Wrapped error
}

// Error returns "CODE: message[: cause]".
func (e *SignalsError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *SignalsError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion replaces the hint.
func (e *SignalsError) WithSuggestion(s string) *SignalsError {
	e.Suggestion = s
	return e
}

// WithExample attaches a code snippet.
func (e *SignalsError) WithExample(ex string) *SignalsError {
	e.Example = ex
	return e
}

// WithDetail replaces the detail paragraph.
func (e *SignalsError) WithDetail(d string) *SignalsError {
	e.Detail = d
	return e
}

// Wrap records err as the cause and returns e.
func (e *SignalsError) Wrap(err error) *SignalsError {
	e.Wrapped = err
	return e
}

// New creates a SignalsError from a registered error code.
func New(code string) *SignalsError {
	template, ok := registry[code]
	if !ok {
		return &SignalsError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &SignalsError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new SignalsError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *SignalsError {
	return &SignalsError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a SignalsError with the given code.
// An error that already is (or wraps) a SignalsError is returned as is.
func FromError(err error, code string) *SignalsError {
	if err == nil {
		return nil
	}
	var se *SignalsError
	if stderrors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}

// sentinels maps engine errors to registry codes.
var sentinels = []struct {
	err  error
	code string
}{
	{reactive.ErrUseAfterDispose, "R001"},
	{reactive.ErrCyclicDependency, "R002"},
	{reactive.ErrPassLimit, "R003"},
}

// Classify returns err as a SignalsError, choosing the code from the
// engine sentinel it wraps. Errors that match nothing get fallback.
func Classify(err error, fallback string) *SignalsError {
	if err == nil {
		return nil
	}
	var se *SignalsError
	if stderrors.As(err, &se) {
		return se
	}
	for _, s := range sentinels {
		if stderrors.Is(err, s.err) {
			return New(s.code).Wrap(err)
		}
	}
	return New(fallback).Wrap(err)
}
