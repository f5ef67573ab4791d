package build

import (
	"context"

	"github.com/protosol/protosol-build/internal/compiler"
	"github.com/protosol/protosol-build/internal/directive"
	"github.com/protosol/protosol-build/internal/schema"
	"github.com/protosol/protosol-build/internal/toolchain"
	"github.com/protosol/protosol-build/pkg/config"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
)

// flatbufferFlags are always passed: mutable object API and comparison
// support on the generated types.
var flatbufferFlags = []string{"--gen-object-api", "--gen-compare"}

// FlatbuffersFlow turns the .fbs files of one directory into generated bindings.
type FlatbuffersFlow struct {
	config   *config.Config
	scanner  *schema.Scanner
	resolver *toolchain.Resolver
	checker  *toolchain.HealthChecker
	flatc    *compiler.Flatc
	logger   *logger.Logger
}

func NewFlatbuffersFlow(cfg *config.Config, p platform.Platform, emitter *directive.Emitter, log *logger.Logger) *FlatbuffersFlow {
	if log == nil {
		log = logger.New()
	}
	log = log.WithStage("flatbuffers")
	return &FlatbuffersFlow{
		config:   cfg,
		scanner:  schema.NewScanner(p, emitter, log),
		resolver: toolchain.NewResolver(log, toolchain.DefaultStrategies(cfg.Flatbuffers.Tool, p, cfg.ProjectRoot)...),
		checker:  toolchain.NewHealthChecker(p, log),
		flatc:    compiler.NewFlatc(p, log),
		logger:   log,
	}
}

// Run scans, resolves and health-checks flatc, then compiles every file in
// one invocation. The include path is the resolved absolute directory.
func (f *FlatbuffersFlow) Run(ctx context.Context) error {
	fc := f.config.Flatbuffers

	res, err := f.scanner.Scan(schema.Request{
		Dir:        fc.Dir,
		TriggerKey: fc.TriggerKey,
		Extension:  fc.Extension,
		Exclude:    fc.Exclude,
	})
	if err != nil {
		return err
	}

	tool, err := f.resolver.Resolve(fc.Tool.Name)
	if err != nil {
		return err
	}

	version, err := f.checker.Check(ctx, tool, toolchain.CheckOptions{
		Banner:     toolchain.FlatcBanner,
		MinVersion: fc.MinVersion,
		Timeout:    fc.CheckTimeout,
	})
	if err != nil {
		return err
	}
	if version != nil {
		f.logger.Debug("flatc checked", "version", version.String())
	}

	if len(res.Files) == 0 {
		f.logger.Warn("no schema files found, skipping compilation", "dir", res.Dir, "extension", fc.Extension)
		return nil
	}

	extra := make([]string, 0, len(flatbufferFlags)+len(fc.ExtraArgs))
	extra = append(extra, flatbufferFlags...)
	extra = append(extra, fc.ExtraArgs...)

	f.logger.Info("compiling flatbuffer schemas", "files", len(res.Files), "flatc", tool.Path, "out", f.config.OutDir)
	return f.flatc.Run(ctx, compiler.FlatcRequest{
		Executable: tool.Path,
		Lang:       fc.Lang,
		OutDir:     f.config.OutDir,
		Includes:   append([]string{res.Dir}, rootRelative(f.config.ProjectRoot, fc.Includes)...),
		Inputs:     res.Files,
		ExtraArgs:  extra,
	})
}
