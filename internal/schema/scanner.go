// Package schema discovers schema files and registers them as build
// invalidation triggers.
package schema

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/protosol/protosol-build/internal/directive"
	"github.com/protosol/protosol-build/pkg/errors"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/pathutil"
	"github.com/protosol/protosol-build/pkg/platform"
)

// Request describes one schema directory to scan.
type Request struct {
	// Dir is resolved against the platform's working directory when relative.
	Dir string
	// TriggerKey names the build variable that receives the resolved directory.
	TriggerKey string
	// Extension is compared case-sensitively, without the leading dot.
	Extension string
	// Exclude holds doublestar patterns matched against file names.
	Exclude []string
}

// Result is the resolved directory and the matching files inside it.
type Result struct {
	Dir   string
	Files []string
}

type Scanner struct {
	platform platform.Platform
	emitter  *directive.Emitter
	logger   *logger.Logger
}

func NewScanner(p platform.Platform, emitter *directive.Emitter, log *logger.Logger) *Scanner {
	if log == nil {
		log = logger.New()
	}
	return &Scanner{platform: p, emitter: emitter, logger: log.WithField("component", "scanner")}
}

// Scan resolves req.Dir, emits a trigger for the directory and for every
// matching file, and returns the matches sorted by name. Sub-directories are
// not descended into. An empty directory yields an empty result.
func (s *Scanner) Scan(req Request) (*Result, error) {
	dir, err := s.resolve(req.Dir)
	if err != nil {
		return nil, err
	}

	if err := s.emitter.RerunIfChanged(dir); err != nil {
		return nil, err
	}
	if err := s.emitter.SetVar(req.TriggerKey, dir); err != nil {
		return nil, err
	}

	entries, err := s.platform.ReadDir(dir)
	if err != nil {
		return nil, errors.NewDirectoryReadError(dir, "list", err)
	}

	ext := strings.TrimPrefix(req.Extension, ".")
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		info, err := entry.Info()
		if err != nil {
			return nil, errors.NewDirectoryReadError(filepath.Join(dir, name), "stat", err)
		}
		if info.IsDir() || extension(name) != ext {
			continue
		}

		excluded, err := matchAny(req.Exclude, name)
		if err != nil {
			return nil, errors.NewConfigError("schema", "exclude", err)
		}
		if excluded {
			s.logger.Debug("excluding schema file", "file", name)
			continue
		}

		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)

	for _, file := range files {
		if err := s.emitter.RerunIfChanged(file); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("scanned schema directory", "dir", dir, "extension", ext, "files", len(files))
	return &Result{Dir: dir, Files: files}, nil
}

func (s *Scanner) resolve(rel string) (string, error) {
	wd, err := s.platform.Getwd()
	if err != nil {
		return "", errors.NewDirectoryResolutionError(rel, "getwd", err)
	}

	abs := rel
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(wd, rel)
	}

	canonical, err := s.platform.EvalSymlinks(abs)
	if err != nil {
		return "", errors.NewDirectoryResolutionError(abs, "canonicalize", err)
	}
	if !filepath.IsAbs(canonical) {
		canonical = filepath.Join(wd, canonical)
	}
	canonical = pathutil.Normalize(filepath.Clean(canonical))

	info, err := s.platform.Stat(canonical)
	if err != nil {
		return "", errors.NewDirectoryResolutionError(canonical, "stat", err)
	}
	if !info.IsDir() {
		return "", errors.NewDirectoryResolutionError(canonical, "stat", fmt.Errorf("not a directory"))
	}
	return canonical, nil
}

// extension returns the text after the last dot of name. Names without a
// dot, and dot-files such as ".proto", have no extension.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i+1:]
}

func matchAny(patterns []string, name string) (bool, error) {
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
