package toolrunner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/oshokin/qt-deploy/internal/logger"
)

// Command describes one external tool invocation.
type Command struct {
	// Path is the tool binary; bare names are resolved via PATH.
	Path string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Description names the operation for logs and error messages.
	Description string
}

// Invoker runs external tools. The pipeline depends on this interface so
// stages can be tested with fakes substituted for real subprocesses.
type Invoker interface {
	Run(ctx context.Context, cmd Command) (string, error)
}

// LaunchError means the tool could not be found or started at all,
// as opposed to starting and failing.
type LaunchError struct {
	// Tool is the binary that failed to launch.
	Tool string
	// Err is the underlying launch failure.
	Err error
}

// Error implements the error interface.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Tool, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExitError means the tool started and returned a non-zero status.
// Output carries the captured combined stdout/stderr verbatim.
type ExitError struct {
	// Tool is the binary that failed.
	Tool string
	// Code is the tool's exit code.
	Code int
	// Output is the captured combined output.
	Output string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Tool, e.Code)
}

// ExecInvoker runs tools via os/exec, blocking until they exit.
type ExecInvoker struct{}

// Run launches the command, waits for it and captures combined output.
func (ExecInvoker) Run(ctx context.Context, cmd Command) (string, error) {
	logger.InfoKV(ctx, "Running external tool",
		"description", cmd.Description,
		"command", cmd.Path+" "+strings.Join(cmd.Args, " "))

	execCmd := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	execCmd.Dir = cmd.Dir

	out, err := execCmd.CombinedOutput()
	output := string(out)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, &ExitError{
				Tool:   cmd.Path,
				Code:   exitErr.ExitCode(),
				Output: output,
			}
		}

		return output, &LaunchError{Tool: cmd.Path, Err: err}
	}

	return output, nil
}
