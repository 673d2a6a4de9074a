package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/roach88/evgen/internal/reconcile"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution, conflicts included
	ExitFailure      = 1 // Fatal error (invalid root, bad definition, failed write, invalid argument)
	ExitCommandError = 2 // Usage error reported by the command parser
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set when the error was already printed to the user.
	Reported bool
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

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
// The error counts as reported.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err, Reported: true}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitCommandError if the error is not an ExitError, since only
// argument parsing fails without one.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
	Color     bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E005", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
// Text errors go to ErrWriter so they never mix with generated output.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// SyncResult is the JSON payload of the generating commands.
type SyncResult struct {
	Results []reconcile.Result `json:"results"`
	Skipped []SkippedInterface `json:"skipped,omitempty"`
}

// SkippedInterface names an interface left out of a batch run.
type SkippedInterface struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Report prints per-file status lines, or the JSON response.
func (f *OutputFormatter) Report(report *reconcile.Report, skipped []SkippedInterface) error {
	if f.Format == "json" {
		return f.Success(SyncResult{Results: report.Results, Skipped: skipped})
	}

	for _, res := range report.Results {
		label := f.stateColor(res.State).Sprintf("%-8s", res.State)
		line := fmt.Sprintf("%s %s", label, res.Display)
		switch {
		case res.Err != nil:
			line += fmt.Sprintf(" (%v)", res.Err)
		case res.Reason != "":
			line += fmt.Sprintf(" (%s)", res.Reason)
		}
		fmt.Fprintln(f.Writer, line)
	}
	for _, s := range skipped {
		fmt.Fprintf(f.Writer, "%s interface %s (%s)\n", f.stateColor(reconcile.SkippedConflict).Sprintf("%-8s", "skipped"), s.Name, s.Reason)
	}
	return nil
}

// Lines prints one line per entry, or the entries as JSON data.
func (f *OutputFormatter) Lines(lines []string) error {
	if f.Format == "json" {
		return f.Success(lines)
	}
	for _, l := range lines {
		fmt.Fprintln(f.Writer, l)
	}
	return nil
}

func (f *OutputFormatter) stateColor(state reconcile.State) *color.Color {
	var c *color.Color
	switch state {
	case reconcile.Written:
		c = color.New(color.FgGreen)
	case reconcile.SkippedConflict:
		c = color.New(color.FgYellow)
	case reconcile.Failed:
		c = color.New(color.FgRed, color.Bold)
	case reconcile.DiffPrinted:
		c = color.New(color.FgCyan)
	default:
		c = color.New(color.Faint)
	}
	if f.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
