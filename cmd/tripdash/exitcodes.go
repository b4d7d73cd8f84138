package main

import "fmt"

// Exit codes for the tripdash CLI.
const (
	ExitOK             = 0 // Every view rendered.
	ExitInvalidArgs    = 1 // Invalid arguments, filters or config.
	ExitPartialFailure = 2 // Some views unavailable, partial output written.
	ExitTotalFailure   = 3 // Nothing rendered.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitPartialFailure:
			msg = "tripdash: some views are unavailable"
		case ExitTotalFailure:
			msg = "tripdash: dashboard unavailable"
		default:
			msg = fmt.Sprintf("tripdash: exit %d", code)
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
