package deploy

import (
	"errors"
	"fmt"

	"github.com/oshokin/qt-deploy/internal/domain/release"
)

// Kind classifies a stage failure for reporting and exit-code purposes.
type Kind int

const (
	// KindConfig means a required path does not exist for a requested stage
	// or the stage selection itself is contradictory. Reported before any
	// external tool runs; no side effects occur.
	KindConfig Kind = iota + 1
	// KindStaging means a clean/copy operation could not complete.
	KindStaging
	// KindToolLaunch means an external executable could not be found or
	// started, which usually indicates a misconfigured environment.
	KindToolLaunch
	// KindToolFailure means the tool started and returned a non-zero status.
	KindToolFailure
)

// String names the failure category for logs.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration error"
	case KindStaging:
		return "staging error"
	case KindToolLaunch:
		return "tool launch error"
	case KindToolFailure:
		return "tool failure"
	default:
		return "error"
	}
}

// Error is a classified stage failure.
type Error struct {
	// Kind is the failure category.
	Kind Kind
	// Stage is the failing stage; empty for pre-pipeline failures.
	Stage release.Stage
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("%s stage, %s: %v", e.Stage, e.Kind, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode maps a run outcome to the process exit code: 0 on full success,
// a distinct non-zero code per failure category otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var stageErr *Error
	if errors.As(err, &stageErr) {
		return 1 + int(stageErr.Kind)
	}

	return 1
}

// configError wraps err as a configuration failure of the given stage.
func configError(stage release.Stage, err error) *Error {
	return &Error{Kind: KindConfig, Stage: stage, Err: err}
}

// stagingError wraps err as a staging failure of the given stage.
func stagingError(stage release.Stage, err error) *Error {
	return &Error{Kind: KindStaging, Stage: stage, Err: err}
}
