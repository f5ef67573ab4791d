// Package compiler invokes the external schema compilers, and optionally
// checks proto sources in-process before protoc sees them.
package compiler

import (
	"bytes"
	"context"
	"strings"

	"github.com/protosol/protosol-build/pkg/errors"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
)

// runner executes one compiler process to completion and turns any failure
// into a CompilationError carrying the compiler's diagnostics.
type runner struct {
	platform platform.Platform
	logger   *logger.Logger
}

func (r *runner) run(ctx context.Context, kind, tool, executable string, args []string) error {
	r.logger.Debug("running compiler", "tool", tool, "executable", executable, "args", args)

	var stdout, stderr bytes.Buffer
	cmd := r.platform.CommandContext(ctx, executable, args...)
	cmd.SetStdout(&stdout)
	cmd.SetStderr(&stderr)

	if err := cmd.Run(); err != nil {
		diag := stderr.String()
		if strings.TrimSpace(diag) == "" {
			diag = stdout.String()
		}
		return errors.NewCompilationError(kind, tool, err, diag)
	}

	if out := strings.TrimSpace(stderr.String()); out != "" {
		r.logger.Warn("compiler reported warnings", "tool", tool, "output", out)
	}
	return nil
}

func (r *runner) ensureOutDir(kind, tool, dir string) error {
	if dir == "" {
		return errors.NewCompilationError(kind, tool, errOutDirRequired, "")
	}
	if err := r.platform.MkdirAll(dir, 0o755); err != nil {
		return errors.NewCompilationError(kind, tool, err, "")
	}
	return nil
}
