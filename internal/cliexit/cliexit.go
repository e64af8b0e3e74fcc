// Package cliexit maps command errors to process exit statuses.
package cliexit

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit statuses used by the commands.
const (
	OK      = 0
	Failure = 1
	Usage   = 2
)

// Error carries the exit status a command wants alongside the cause.
// A nil Err means the command already printed everything it had to say.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Silent returns a failure that prints nothing.
func Silent(code int) error {
	return &Error{Code: code}
}

// UsageError returns a usage failure with a formatted message.
func UsageError(format string, args ...any) error {
	return &Error{Code: Usage, Err: fmt.Errorf(format, args...)}
}

// Code returns the exit status for err: OK for nil, the carried code for
// *Error, Failure otherwise.
func Code(err error) int {
	if err == nil {
		return OK
	}
	var exitErr *Error
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return Failure
}

// Report writes err to w the way main does and returns its exit status.
func Report(w io.Writer, err error) int {
	code := Code(err)
	if err == nil {
		return code
	}
	var exitErr *Error
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return code
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return code
}

// Run executes fn and exits the process with the resulting status.
func Run(fn func() error) {
	os.Exit(Report(os.Stderr, fn()))
}
