// Package build runs the schema compilation flows.
package build

import (
	"context"
	"path/filepath"

	"github.com/protosol/protosol-build/internal/compiler"
	"github.com/protosol/protosol-build/internal/directive"
	"github.com/protosol/protosol-build/internal/schema"
	"github.com/protosol/protosol-build/internal/toolchain"
	"github.com/protosol/protosol-build/pkg/config"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
)

// ProtoFlow turns the .proto files of one directory into generated bindings.
type ProtoFlow struct {
	config   *config.Config
	scanner  *schema.Scanner
	resolver *toolchain.Resolver
	precheck *compiler.Precheck
	protoc   *compiler.Protoc
	logger   *logger.Logger
}

func NewProtoFlow(cfg *config.Config, p platform.Platform, emitter *directive.Emitter, log *logger.Logger) *ProtoFlow {
	if log == nil {
		log = logger.New()
	}
	log = log.WithStage("proto")
	return &ProtoFlow{
		config:   cfg,
		scanner:  schema.NewScanner(p, emitter, log),
		resolver: toolchain.NewResolver(log, toolchain.DefaultStrategies(cfg.Proto.Tool, p, cfg.ProjectRoot)...),
		precheck: compiler.NewPrecheck(p, log),
		protoc:   compiler.NewProtoc(p, log),
		logger:   log,
	}
}

// Run scans, resolves protoc and compiles every file in one invocation.
func (f *ProtoFlow) Run(ctx context.Context) error {
	pc := f.config.Proto

	res, err := f.scanner.Scan(schema.Request{
		Dir:        pc.Dir,
		TriggerKey: pc.TriggerKey,
		Extension:  pc.Extension,
		Exclude:    pc.Exclude,
	})
	if err != nil {
		return err
	}

	tool, err := f.resolver.Resolve(pc.Tool.Name)
	if err != nil {
		return err
	}

	if len(res.Files) == 0 {
		f.logger.Warn("no schema files found, skipping compilation", "dir", res.Dir, "extension", pc.Extension)
		return nil
	}

	includes := append([]string{res.Dir}, rootRelative(f.config.ProjectRoot, pc.Includes)...)

	if pc.Precheck {
		req := compiler.PrecheckRequest{Files: res.Files, Includes: includes}
		if pc.DescriptorSetOut != "" {
			req.DescriptorSetOut = under(f.config.OutDir, pc.DescriptorSetOut)
		}
		if err := f.precheck.Check(ctx, req); err != nil {
			return err
		}
	}

	f.logger.Info("compiling proto schemas", "files", len(res.Files), "protoc", tool.Path, "out", f.config.OutDir)
	return f.protoc.Compile(ctx, compiler.ProtocRequest{
		Executable: tool.Path,
		OutDir:     f.config.OutDir,
		Includes:   includes,
		Files:      res.Files,
		Outputs:    pc.Outputs,
		ExtraArgs:  pc.ExtraArgs,
	})
}

// rootRelative anchors relative include directories at the project root.
func rootRelative(root string, dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		out = append(out, under(root, dir))
	}
	return out
}

func under(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
