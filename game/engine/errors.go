package engine

import "fmt"

// Code is a machine-readable classification for a rejected operation.
// Every business-rule violation maps to exactly one code; callers use it to
// pick HTTP statuses or gateway error payloads without parsing messages.
type Code string

const (
	CodeNotFound          Code = "not_found"
	CodeUnauthorized      Code = "unauthorized"
	CodeInvalidState      Code = "invalid_state"
	CodeDuplicate         Code = "duplicate"
	CodeInsufficientFunds Code = "insufficient_funds"
	CodeOutOfRange        Code = "out_of_range"
	CodeAlreadyMarked     Code = "already_marked"
	CodeAlreadyWon        Code = "already_won"
	CodeNoWin             Code = "no_win"
	CodeInternal          Code = "internal"
)

// Error is a recoverable, caller-facing validation failure. Operations
// return it instead of mutating state; it is never a fatal fault.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the classification from an error, defaulting to internal
// for anything that is not an *Error.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return CodeInternal
}
