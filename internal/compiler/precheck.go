package compiler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/reporter"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protosol/protosol-build/pkg/errors"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
)

// PrecheckRequest lists absolute proto files and the include paths that
// contain them.
type PrecheckRequest struct {
	Files    []string
	Includes []string
	// DescriptorSetOut, when set, receives the compiled files and their
	// imports as a serialized FileDescriptorSet.
	DescriptorSetOut string
}

// Precheck parses and links proto sources in-process so that schema mistakes
// are reported with positions before protoc and its plugins run.
type Precheck struct {
	platform platform.Platform
	logger   *logger.Logger
}

func NewPrecheck(p platform.Platform, log *logger.Logger) *Precheck {
	if log == nil {
		log = logger.New()
	}
	return &Precheck{platform: p, logger: log.WithField("tool", "protocompile")}
}

func (c *Precheck) Check(ctx context.Context, req PrecheckRequest) error {
	if len(req.Files) == 0 {
		return errors.NewCompilationError("proto", "protocompile", errNoInputs, "")
	}

	names := make([]string, 0, len(req.Files))
	for _, file := range req.Files {
		name, err := importName(file, req.Includes)
		if err != nil {
			return errors.NewCompilationError("proto", "protocompile", err, "")
		}
		names = append(names, name)
	}

	var diagnostics []string
	rep := reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			diagnostics = append(diagnostics, err.Error())
			return nil
		},
		func(err reporter.ErrorWithPos) {
			c.logger.Warn("proto warning", "detail", err.Error())
		},
	)

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: req.Includes,
		}),
		Reporter: rep,
	}

	files, err := compiler.Compile(ctx, names...)
	if err != nil {
		return errors.NewCompilationError("proto", "protocompile", err, strings.Join(diagnostics, "\n"))
	}
	c.logger.Debug("proto sources linked", "files", len(files))

	if req.DescriptorSetOut == "" {
		return nil
	}

	set := &descriptorpb.FileDescriptorSet{}
	seen := make(map[string]bool)
	for _, f := range files {
		appendWithImports(set, f, seen)
	}

	data, err := proto.Marshal(set)
	if err != nil {
		return errors.NewCompilationError("proto", "protocompile", err, "")
	}
	if err := c.platform.MkdirAll(filepath.Dir(req.DescriptorSetOut), 0o755); err != nil {
		return errors.NewCompilationError("proto", "protocompile", err, "")
	}
	if err := c.platform.WriteFile(req.DescriptorSetOut, data, 0o644); err != nil {
		return errors.NewCompilationError("proto", "protocompile", err, "")
	}
	c.logger.Info("wrote descriptor set", "path", req.DescriptorSetOut, "files", len(set.File))
	return nil
}

// importName returns file relative to the first include directory holding it,
// in the slash-separated form used by import statements.
func importName(file string, includes []string) (string, error) {
	for _, inc := range includes {
		rel, err := filepath.Rel(inc, file)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return filepath.ToSlash(rel), nil
	}
	return "", fmt.Errorf("%s is not under any include path", file)
}

// appendWithImports adds fd after its transitive imports, the order protoc
// uses for --include_imports.
func appendWithImports(set *descriptorpb.FileDescriptorSet, fd protoreflect.FileDescriptor, seen map[string]bool) {
	if seen[fd.Path()] {
		return
	}
	seen[fd.Path()] = true
	imports := fd.Imports()
	for i := 0; i < imports.Len(); i++ {
		appendWithImports(set, imports.Get(i).FileDescriptor, seen)
	}
	set.File = append(set.File, protodesc.ToFileDescriptorProto(fd))
}
