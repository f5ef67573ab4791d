// Package toolchain locates the external schema compilers and verifies that
// a located compiler actually runs.
package toolchain

import (
	"path/filepath"

	"github.com/protosol/protosol-build/pkg/config"
	"github.com/protosol/protosol-build/pkg/errors"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
)

// Tool is a located compiler executable. It is resolved once per flow and
// never cached across builds.
type Tool struct {
	Name string
	Path string
	// Source names the strategy that produced Path.
	Source string
}

// Strategy is one way of finding a tool.
type Strategy interface {
	// Locate returns the tool path and true on a hit.
	Locate(tool string) (string, bool)
	// Describe names the strategy for diagnostics, e.g. "env PROTOC_EXECUTABLE".
	Describe(tool string) string
}

// EnvStrategy reads an explicit path from an environment variable. The path
// is not checked here; an empty value counts as unset.
type EnvStrategy struct {
	Variable string
	Env      platform.Environment
}

func (s *EnvStrategy) Locate(string) (string, bool) {
	value, ok := s.Env.LookupEnv(s.Variable)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (s *EnvStrategy) Describe(string) string {
	return "env " + s.Variable
}

// LocalInstallStrategy looks for <Root>/<Dir>/<tool>, and <tool>.exe on
// Windows, and only hits when the file exists.
type LocalInstallStrategy struct {
	Root    string
	Dir     string
	FS      platform.FileSystem
	Windows bool
}

func (s *LocalInstallStrategy) Locate(tool string) (string, bool) {
	for _, candidate := range s.candidates(tool) {
		if s.FS.FileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (s *LocalInstallStrategy) Describe(tool string) string {
	return "local " + filepath.Join(s.Root, s.Dir, tool)
}

func (s *LocalInstallStrategy) candidates(tool string) []string {
	base := filepath.Join(s.Root, s.Dir, tool)
	if s.Windows && filepath.Ext(tool) != ".exe" {
		return []string{base, base + ".exe"}
	}
	return []string{base}
}

// PathStrategy searches PATH. Only used when the tool config enables it.
type PathStrategy struct {
	Exec platform.ExecOperations
}

func (s *PathStrategy) Locate(tool string) (string, bool) {
	path, err := s.Exec.LookPath(tool)
	if err != nil {
		return "", false
	}
	return path, true
}

func (s *PathStrategy) Describe(string) string {
	return "PATH"
}

// DefaultStrategies builds the lookup order for one tool: each configured
// environment variable, the local installation under root, then PATH when
// enabled.
func DefaultStrategies(cfg config.ToolConfig, p platform.Platform, root string) []Strategy {
	var strategies []Strategy
	for _, variable := range cfg.EnvNames() {
		strategies = append(strategies, &EnvStrategy{Variable: variable, Env: p})
	}
	if cfg.LocalDir != "" {
		strategies = append(strategies, &LocalInstallStrategy{
			Root:    root,
			Dir:     cfg.LocalDir,
			FS:      p,
			Windows: p.Info().IsWindows(),
		})
	}
	if cfg.SearchPath {
		strategies = append(strategies, &PathStrategy{Exec: p})
	}
	return strategies
}

type Resolver struct {
	strategies []Strategy
	logger     *logger.Logger
}

func NewResolver(log *logger.Logger, strategies ...Strategy) *Resolver {
	if log == nil {
		log = logger.New()
	}
	return &Resolver{strategies: strategies, logger: log.WithField("component", "resolver")}
}

// Resolve evaluates the strategies in order; the first hit wins. When none
// hits the error names the tool and every strategy tried.
func (r *Resolver) Resolve(name string) (*Tool, error) {
	tried := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		desc := s.Describe(name)
		if path, ok := s.Locate(name); ok {
			r.logger.Debug("resolved tool", "tool", name, "path", path, "source", desc)
			return &Tool{Name: name, Path: path, Source: desc}, nil
		}
		tried = append(tried, desc)
	}
	return nil, errors.NewToolNotFoundError(name, tried)
}
