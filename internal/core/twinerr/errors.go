// Package twinerr holds the error taxonomy shared by every twin component.
package twinerr

import (
	"errors"
	"fmt"
)

// Code classifies a twin error.
type Code int

const (
	CodeUnknown Code = iota
	// CodeConfiguration marks malformed layout, pipe or config input. Fatal at construction.
	CodeConfiguration
	// CodeInputIgnored marks pointer input that hit nothing pickable. Never surfaced as a failure.
	CodeInputIgnored
	// CodeRenderSurfaceUnavailable marks a host that cannot provide a render surface. Fatal.
	CodeRenderSurfaceUnavailable
)

func (c Code) String() string {
	switch c {
	case CodeConfiguration:
		return "ConfigurationError"
	case CodeInputIgnored:
		return "InputIgnored"
	case CodeRenderSurfaceUnavailable:
		return "RenderSurfaceUnavailable"
	default:
		return "UnknownError"
	}
}

// Sentinels for errors.Is matching.
var (
	ErrConfiguration            = &Error{Code: CodeConfiguration, Message: "configuration error"}
	ErrInputIgnored             = &Error{Code: CodeInputIgnored, Message: "input ignored"}
	ErrRenderSurfaceUnavailable = &Error{Code: CodeRenderSurfaceUnavailable, Message: "render surface unavailable"}
)

// Error is a coded twin error with optional cause and context.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	msg := e.Code.String() + ": " + e.Message
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code, so callers can test against the sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithContext adds a key/value pair to the error context.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Configuration builds a CodeConfiguration error.
func Configuration(format string, args ...any) *Error {
	return &Error{Code: CodeConfiguration, Message: fmt.Sprintf(format, args...)}
}

// WrapConfiguration builds a CodeConfiguration error around cause.
func WrapConfiguration(cause error, format string, args ...any) *Error {
	return &Error{Code: CodeConfiguration, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// RenderSurfaceUnavailable builds a CodeRenderSurfaceUnavailable error.
func RenderSurfaceUnavailable(format string, args ...any) *Error {
	return &Error{Code: CodeRenderSurfaceUnavailable, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
