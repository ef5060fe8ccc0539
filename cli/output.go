package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit codes
const (
	ExitSuccess   = 0
	ExitGeneral   = 1
	ExitConfig    = 2
	ExitQueryFile = 3
	ExitDBConnect = 4
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func ConfigError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitConfig, Message: msg, Err: err}
}

func QueryFileError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitQueryFile, Message: msg, Err: err}
}

func DBConnectError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitDBConnect, Message: msg, Err: err}
}

// ExitCode returns the exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitGeneral
}

// FatalErr prints err to stderr and exits with its exit code.
func FatalErr(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(ExitCode(err))
}

// Printer writes user-facing messages.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// Info prints an informational message to Out.
func (p Printer) Info(msg string) {
	fmt.Fprintln(p.Out, msg)
}

// Infof prints a formatted informational message to Out.
func (p Printer) Infof(format string, args ...any) {
	fmt.Fprintf(p.Out, format+"\n", args...)
}

// Successf prints a formatted success message to Out.
func (p Printer) Successf(format string, args ...any) {
	fmt.Fprintf(p.Out, "✓ "+format+"\n", args...)
}

// Warnf prints a formatted warning message to Err.
func (p Printer) Warnf(format string, args ...any) {
	fmt.Fprintf(p.Err, "warning: "+format+"\n", args...)
}
