package errors

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step an error came from. It is what the user sees
// first when the build aborts.
type Stage string

const (
	StageConfig    Stage = "config"
	StageScan      Stage = "scan"
	StageResolve   Stage = "resolve"
	StageToolCheck Stage = "tool-check"
	StageCompile   Stage = "compile"
	StageDirective Stage = "directive"
	StageUnknown   Stage = "unknown"
)

// ClassifiedError is a regular error plus the stage it belongs to, the path or
// tool it concerns, and a short message for the build log.
type ClassifiedError struct {
	Err     error
	Stage   Stage
	Subject string
	UserMsg string
}

func (e *ClassifiedError) Error() string {
	return e.Err.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// Diagnostic renders the one-line summary printed before the build aborts.
func (e *ClassifiedError) Diagnostic() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s failed (%s): %s", e.Stage, e.Subject, e.UserMsg)
	}
	return fmt.Sprintf("%s failed: %s", e.Stage, e.UserMsg)
}

// ClassifyError maps an error onto its pipeline stage
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	subject := subjectOf(err)

	switch {
	case IsConfigError(err):
		return &ClassifiedError{
			Err:     err,
			Stage:   StageConfig,
			Subject: subject,
			UserMsg: "configuration is invalid; check protosol.yml, flags and PROTOSOL_* variables",
		}

	case IsDirectoryResolutionError(err):
		return &ClassifiedError{
			Err:     err,
			Stage:   StageScan,
			Subject: subject,
			UserMsg: "schema directory does not exist or cannot be canonicalized",
		}

	case IsDirectoryReadError(err):
		return &ClassifiedError{
			Err:     err,
			Stage:   StageScan,
			Subject: subject,
			UserMsg: "schema directory could not be listed",
		}

	case IsToolNotFoundError(err):
		return &ClassifiedError{
			Err:     err,
			Stage:   StageResolve,
			Subject: subject,
			UserMsg: "compiler not found; set the <TOOL>_EXECUTABLE variable or install it under opt/bin",
		}

	case IsToolHealthCheckError(err):
		return &ClassifiedError{
			Err:     err,
			Stage:   StageToolCheck,
			Subject: subject,
			UserMsg: "resolved compiler is missing, not executable, or reports an unexpected version",
		}

	case IsCompilationError(err):
		return &ClassifiedError{
			Err:     err,
			Stage:   StageCompile,
			Subject: subject,
			UserMsg: "schema compiler reported an error",
		}

	case errors.Is(err, ErrDirective):
		return &ClassifiedError{
			Err:     err,
			Stage:   StageDirective,
			UserMsg: "build directives could not be written to stdout",
		}

	case IsContextError(err):
		return &ClassifiedError{
			Err:     err,
			Stage:   StageUnknown,
			UserMsg: "build was interrupted",
		}

	default:
		return &ClassifiedError{
			Err:     err,
			Stage:   StageUnknown,
			Subject: subject,
			UserMsg: "unexpected error",
		}
	}
}

// subjectOf names the tool (and its path, when known) or the directory an
// error concerns.
func subjectOf(err error) string {
	tool, hasTool := GetTool(err)
	path, hasPath := GetPath(err)
	switch {
	case hasTool && hasPath:
		return fmt.Sprintf("%s at %s", tool, path)
	case hasTool:
		return tool
	case hasPath:
		return path
	default:
		return ""
	}
}

// GetStage tells you which pipeline step produced the error
func GetStage(err error) Stage {
	classified := ClassifyError(err)
	if classified == nil {
		return ""
	}
	return classified.Stage
}
