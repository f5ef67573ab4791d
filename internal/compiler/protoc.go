package compiler

import (
	"context"
	stderrors "errors"

	"github.com/protosol/protosol-build/pkg/config"
	"github.com/protosol/protosol-build/pkg/errors"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
)

var (
	errNoInputs       = stderrors.New("no schema files to compile")
	errOutDirRequired = stderrors.New("output directory is required")
)

// ProtocRequest is one protoc invocation over a complete file set.
type ProtocRequest struct {
	Executable string
	OutDir     string
	Includes   []string
	Files      []string
	Outputs    []config.OutputConfig
	ExtraArgs  []string
}

type Protoc struct {
	runner
}

func NewProtoc(p platform.Platform, log *logger.Logger) *Protoc {
	if log == nil {
		log = logger.New()
	}
	return &Protoc{runner{platform: p, logger: log.WithField("tool", "protoc")}}
}

// Compile runs protoc once over req.Files, creating OutDir first. The run is
// all-or-nothing; existing files in OutDir are never removed.
func (c *Protoc) Compile(ctx context.Context, req ProtocRequest) error {
	if len(req.Files) == 0 {
		return errors.NewCompilationError("proto", "protoc", errNoInputs, "")
	}
	if len(req.Outputs) == 0 {
		return errors.NewCompilationError("proto", "protoc", stderrors.New("no output generator configured"), "")
	}
	if err := c.ensureOutDir("proto", "protoc", req.OutDir); err != nil {
		return err
	}
	return c.run(ctx, "proto", "protoc", req.Executable, ProtocArgs(req))
}

// ProtocArgs renders the command line:
//
//	--proto_path=<inc>... --<plugin>_out=[<opts>:]<out>... <extra>... <files>...
func ProtocArgs(req ProtocRequest) []string {
	args := make([]string, 0, len(req.Includes)+len(req.Outputs)+len(req.ExtraArgs)+len(req.Files))
	for _, inc := range req.Includes {
		args = append(args, "--proto_path="+inc)
	}
	for _, out := range req.Outputs {
		target := req.OutDir
		if out.Options != "" {
			target = out.Options + ":" + target
		}
		args = append(args, "--"+out.Plugin+"_out="+target)
	}
	args = append(args, req.ExtraArgs...)
	return append(args, req.Files...)
}
