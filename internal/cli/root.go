// Package cli wires the protosol-build command line.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/protosol/protosol-build/internal/build"
	"github.com/protosol/protosol-build/internal/directive"
	"github.com/protosol/protosol-build/pkg/config"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
)

// options holds the global flags shared by every command.
type options struct {
	configPath  string
	projectRoot string
	outDir      string
	namespace   string
	logLevel    string
	precheck    bool
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "",
		"Path to protosol.yml (default: $PROTOSOL_CONFIG_PATH, then <project-root>/protosol.yml)")
	fs.StringVar(&o.projectRoot, "project-root", "",
		"Project root holding opt/bin (default: $PROTOSOL_PROJECT_ROOT, $CARGO_MANIFEST_DIR or the working directory)")
	fs.StringVar(&o.outDir, "out-dir", "", "Directory for generated code (default: $OUT_DIR)")
	fs.StringVar(&o.namespace, "namespace", "", "Prefix for build directives (default: cargo)")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&o.precheck, "precheck", false, "Parse and link proto files in-process before running protoc")
}

// loadOptions converts flags to config overrides. --precheck only overrides
// the config file when it was given explicitly.
func (o *options) loadOptions(fs *pflag.FlagSet) config.LoadOptions {
	opts := config.LoadOptions{
		ConfigPath:  o.configPath,
		ProjectRoot: o.projectRoot,
		OutDir:      o.outDir,
		Namespace:   o.namespace,
		LogLevel:    o.logLevel,
	}
	if fs.Changed("precheck") {
		precheck := o.precheck
		opts.Precheck = &precheck
	}
	return opts
}

// app carries what the commands share at run time.
type app struct {
	platform platform.Platform
	stdout   io.Writer
	stderr   io.Writer
	opts     options
}

// load reads the configuration and returns a logger configured from it.
func (a *app) load(fs *pflag.FlagSet, requireOutDir bool) (*config.Config, *logger.Logger, error) {
	opts := a.opts.loadOptions(fs)
	opts.AllowMissingOutDir = !requireOutDir

	cfg, source, err := config.Load(a.platform, opts)
	if err != nil {
		return nil, nil, err
	}

	// Validate already accepted the level.
	level, _ := logger.ParseLevel(cfg.Logging.Level)
	log := logger.NewWithConfig(logger.Config{Level: level, Output: a.stderr})
	log.Debug("configuration loaded", "source", source, "root", cfg.ProjectRoot)
	return cfg, log, nil
}

// NewRootCmd builds the command tree. Directives go to stdout, logs and
// diagnostics to stderr.
func NewRootCmd(p platform.Platform, stdout, stderr io.Writer) *cobra.Command {
	a := &app{platform: p, stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "protosol-build",
		Short: "Compile proto and flatbuffer schemas for a build",
		Long: `protosol-build locates protoc and flatc, compiles every schema in the
configured directories into the output directory, and prints build
invalidation directives on stdout:

  cargo:rerun-if-changed=<path>
  cargo:PROTO_DIR=<dir>

Compilers are found through <TOOL>_EXECUTABLE, PROTOSOL_<TOOL> or
<project-root>/opt/bin/<tool>, in that order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.load(cmd.Flags(), true)
			if err != nil {
				return err
			}
			emitter := directive.NewEmitter(a.stdout, cfg.DirectiveNamespace)
			return build.NewOrchestrator(cfg, a.platform, emitter, log).Run(cmd.Context())
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	a.opts.addFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newResolveCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the command line against the real platform.
func Execute(ctx context.Context) error {
	return NewRootCmd(platform.NewPlatform(), os.Stdout, os.Stderr).ExecuteContext(ctx)
}
