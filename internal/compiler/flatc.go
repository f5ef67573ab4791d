package compiler

import (
	"context"

	"github.com/protosol/protosol-build/pkg/errors"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
)

// FlatcRequest is one flatc invocation over a complete file set.
type FlatcRequest struct {
	Executable string
	Lang       string
	OutDir     string
	Includes   []string
	Inputs     []string
	ExtraArgs  []string
}

type Flatc struct {
	runner
}

func NewFlatc(p platform.Platform, log *logger.Logger) *Flatc {
	if log == nil {
		log = logger.New()
	}
	return &Flatc{runner{platform: p, logger: log.WithField("tool", "flatc")}}
}

// Run generates code for req.Inputs. flatc does not validate its executable
// before spawning, so callers are expected to health-check it first.
func (c *Flatc) Run(ctx context.Context, req FlatcRequest) error {
	if len(req.Inputs) == 0 {
		return errors.NewCompilationError("flatbuffers", "flatc", errNoInputs, "")
	}
	if err := c.ensureOutDir("flatbuffers", "flatc", req.OutDir); err != nil {
		return err
	}
	return c.run(ctx, "flatbuffers", "flatc", req.Executable, FlatcArgs(req))
}

// FlatcArgs renders the command line:
//
//	--<lang> -o <out> -I <inc>... <extra>... <inputs>...
func FlatcArgs(req FlatcRequest) []string {
	args := []string{"--" + req.Lang, "-o", req.OutDir}
	for _, inc := range req.Includes {
		args = append(args, "-I", inc)
	}
	args = append(args, req.ExtraArgs...)
	return append(args, req.Inputs...)
}
