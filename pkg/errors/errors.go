// Package errors provides the error taxonomy for the schema build pipeline.
// Every failure is wrapped in a typed error naming the path or tool involved
// and anchored to one sentinel, so callers can test with errors.Is/As.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per pipeline failure kind
var (
	ErrDirectoryResolution = errors.New("schema directory could not be resolved")
	ErrDirectoryRead       = errors.New("schema directory could not be read")
	ErrToolNotFound        = errors.New("tool not found")
	ErrToolHealthCheck     = errors.New("tool check failed")
	ErrCompilation         = errors.New("schema compilation failed")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrDirective           = errors.New("build directive could not be emitted")
)

// DirectoryError represents a failure while resolving or reading a schema directory
type DirectoryError struct {
	Path      string
	Operation string
	Err       error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory %s: operation %s: %v", e.Path, e.Operation, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// ToolError represents a failure to locate or validate an external compiler
type ToolError struct {
	Tool      string
	Path      string
	Operation string
	Err       error
}

func (e *ToolError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("tool %s (%s): operation %s: %v", e.Tool, e.Path, e.Operation, e.Err)
	}
	return fmt.Sprintf("tool %s: operation %s: %v", e.Tool, e.Operation, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// CompilationError represents a failed compiler run. Stderr holds whatever the
// compiler printed, trimmed.
type CompilationError struct {
	Kind   string
	Tool   string
	Err    error
	Stderr string
}

func (e *CompilationError) Error() string {
	msg := fmt.Sprintf("compile %s with %s: %v", e.Kind, e.Tool, e.Err)
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// ConfigError represents an error related to configuration
type ConfigError struct {
	Component string
	Field     string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config %s.%s: %v", e.Component, e.Field, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Component, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func NewDirectoryResolutionError(path, operation string, err error) error {
	return &DirectoryError{Path: path, Operation: operation, Err: join(ErrDirectoryResolution, err)}
}

func NewDirectoryReadError(path, operation string, err error) error {
	return &DirectoryError{Path: path, Operation: operation, Err: join(ErrDirectoryRead, err)}
}

// NewToolNotFoundError names the tool and the discovery strategies that were tried.
func NewToolNotFoundError(tool string, tried []string) error {
	err := ErrToolNotFound
	if len(tried) > 0 {
		err = fmt.Errorf("%w (tried %s)", ErrToolNotFound, strings.Join(tried, ", "))
	}
	return &ToolError{Tool: tool, Operation: "resolve", Err: err}
}

func NewToolHealthCheckError(tool, path string, err error) error {
	return &ToolError{Tool: tool, Path: path, Operation: "check", Err: join(ErrToolHealthCheck, err)}
}

func NewCompilationError(kind, tool string, err error, stderr string) error {
	return &CompilationError{
		Kind:   kind,
		Tool:   tool,
		Err:    join(ErrCompilation, err),
		Stderr: strings.TrimSpace(stderr),
	}
}

func NewConfigError(component, field string, err error) error {
	return &ConfigError{Component: component, Field: field, Err: join(ErrInvalidConfig, err)}
}

func NewDirectiveError(err error) error {
	return join(ErrDirective, err)
}

func join(sentinel, err error) error {
	if err == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Error classification functions
func IsDirectoryResolutionError(err error) bool {
	return errors.Is(err, ErrDirectoryResolution)
}

func IsDirectoryReadError(err error) bool {
	return errors.Is(err, ErrDirectoryRead)
}

func IsToolNotFoundError(err error) bool {
	return errors.Is(err, ErrToolNotFound)
}

func IsToolHealthCheckError(err error) bool {
	return errors.Is(err, ErrToolHealthCheck)
}

func IsCompilationError(err error) bool {
	return errors.Is(err, ErrCompilation)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// Error extraction helpers
func GetTool(err error) (string, bool) {
	var te *ToolError
	if errors.As(err, &te) {
		return te.Tool, true
	}
	var ce *CompilationError
	if errors.As(err, &ce) {
		return ce.Tool, true
	}
	return "", false
}

func GetPath(err error) (string, bool) {
	var de *DirectoryError
	if errors.As(err, &de) {
		return de.Path, true
	}
	var te *ToolError
	if errors.As(err, &te) && te.Path != "" {
		return te.Path, true
	}
	return "", false
}

func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
