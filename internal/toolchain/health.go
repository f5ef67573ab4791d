package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/protosol/protosol-build/pkg/errors"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
	"github.com/protosol/protosol-build/pkg/semver"
)

const defaultCheckTimeout = 10 * time.Second

// Banners printed by the compilers' --version output.
const (
	ProtocBanner = "libprotoc"
	FlatcBanner  = "flatc version"
)

// CheckOptions describes what a healthy tool prints for --version.
type CheckOptions struct {
	// Banner must appear in the output, e.g. "flatc version".
	Banner string
	// MinVersion is optional; when set the reported version must be at least this.
	MinVersion string
	Timeout    time.Duration
}

// HealthChecker runs a resolved tool once before it is trusted with a build.
type HealthChecker struct {
	platform platform.Platform
	logger   *logger.Logger
}

func NewHealthChecker(p platform.Platform, log *logger.Logger) *HealthChecker {
	if log == nil {
		log = logger.New()
	}
	return &HealthChecker{platform: p, logger: log.WithField("component", "health")}
}

// Check verifies that tool.Path is an executable regular file and that
// "<tool> --version" succeeds and reports a compatible version. The parsed
// version is returned when the output carries one.
//
// A bare command name such as "flatc" is looked up on PATH first, the same
// lookup the subprocess would do, and tool.Path is replaced with the result.
func (h *HealthChecker) Check(ctx context.Context, tool *Tool, opts CheckOptions) (*semver.Version, error) {
	if !strings.ContainsAny(tool.Path, `/\`) {
		found, err := h.platform.LookPath(tool.Path)
		if err != nil {
			return nil, errors.NewToolHealthCheckError(tool.Name, tool.Path, err)
		}
		h.logger.Debug("resolved bare tool name on PATH", "tool", tool.Name, "name", tool.Path, "path", found)
		tool.Path = found
	}

	info, err := h.platform.Stat(tool.Path)
	if err != nil {
		return nil, errors.NewToolHealthCheckError(tool.Name, tool.Path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.NewToolHealthCheckError(tool.Name, tool.Path, fmt.Errorf("not a regular file"))
	}
	if !h.platform.Info().IsWindows() && info.Mode().Perm()&0o111 == 0 {
		return nil, errors.NewToolHealthCheckError(tool.Name, tool.Path, fmt.Errorf("not executable (mode %s)", info.Mode().Perm()))
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := h.platform.CommandContext(checkCtx, tool.Path, "--version")
	cmd.SetStdout(&stdout)
	cmd.SetStderr(&stderr)

	if err := cmd.Run(); err != nil {
		if checkCtx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("--version did not finish within %s", timeout)
		} else if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, errors.NewToolHealthCheckError(tool.Name, tool.Path, err)
	}

	output := strings.TrimSpace(stdout.String() + "\n" + stderr.String())
	if opts.Banner != "" && !strings.Contains(output, opts.Banner) {
		return nil, errors.NewToolHealthCheckError(tool.Name, tool.Path,
			fmt.Errorf("unexpected --version output %q, want %q", output, opts.Banner))
	}

	version, verErr := semver.Extract(output)
	if opts.MinVersion != "" {
		minimum, err := semver.NewVersion(opts.MinVersion)
		if err != nil {
			return nil, errors.NewConfigError("tool", "min_version", err)
		}
		if verErr != nil {
			return nil, errors.NewToolHealthCheckError(tool.Name, tool.Path, verErr)
		}
		if !version.AtLeast(minimum) {
			return nil, errors.NewToolHealthCheckError(tool.Name, tool.Path,
				fmt.Errorf("version %s is older than required %s", version, minimum))
		}
	}

	if verErr != nil {
		h.logger.Warn("tool did not report a version", "tool", tool.Name, "output", output)
		return nil, nil
	}
	h.logger.Debug("tool check passed", "tool", tool.Name, "version", version.String())
	return version, nil
}
