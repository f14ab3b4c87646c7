package chocquery

import (
	"errors"
	"fmt"
)

// Error code constants for categorizing command failures.
const (
	ErrEmptyCommand        = "EMPTY_COMMAND"
	ErrAmbiguousSlot       = "AMBIGUOUS_SLOT"      // two or more tokens match one slot
	ErrMisplacedVerb       = "MISPLACED_VERB"      // verb present but not first
	ErrMisplacedPlotFlag   = "MISPLACED_PLOT_FLAG" // barplot present but not last
	ErrUnrecognizedCommand = "UNRECOGNIZED_COMMAND"
	ErrInvalidCombination  = "INVALID_PARAMETER_COMBINATION"
)

// Error represents a rejected command. Every error carries the original input
// so the caller can echo it back. It is JSON-serializable.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Input   string         `json:"input"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is matches another *Error with the same code, so errors.Is works against
// the sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	EmptyCommand        = &Error{Code: ErrEmptyCommand}
	AmbiguousSlot       = &Error{Code: ErrAmbiguousSlot}
	MisplacedVerb       = &Error{Code: ErrMisplacedVerb}
	MisplacedPlotFlag   = &Error{Code: ErrMisplacedPlotFlag}
	UnrecognizedCommand = &Error{Code: ErrUnrecognizedCommand}
	InvalidCombination  = &Error{Code: ErrInvalidCombination}
)

// CodeOf returns the code of a command error, or "" if err is not one.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func parseError(code, input string, details map[string]any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf("Command not recognized: %s", input),
		Input:   input,
		Details: details,
	}
}

func combinationError(input string, details map[string]any) *Error {
	return &Error{
		Code:    ErrInvalidCombination,
		Message: fmt.Sprintf("Command not recognized (invalid selection of parameters): %s", input),
		Input:   input,
		Details: details,
	}
}
