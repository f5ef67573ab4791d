package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/protosol/protosol-build/internal/toolchain"
	"github.com/protosol/protosol-build/pkg/config"
)

func newResolveCmd(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "resolve <tool>",
		Short: "Show where a schema compiler would be taken from",
		Long: `Resolve a compiler the same way a build does and print its path and the
strategy that found it. protoc and flatc use their configured settings; any
other name uses the default strategies for that name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.load(cmd.Flags(), false)
			if err != nil {
				return err
			}

			toolCfg, banner := toolSettings(cfg, args[0])
			resolver := toolchain.NewResolver(log, toolchain.DefaultStrategies(toolCfg, a.platform, cfg.ProjectRoot)...)
			tool, err := resolver.Resolve(toolCfg.Name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s (from %s)\n", tool.Name, tool.Path, tool.Source)

			if !check {
				return nil
			}
			opts := toolchain.CheckOptions{Banner: banner}
			if toolCfg.Name == cfg.Flatbuffers.Tool.Name {
				opts.MinVersion = cfg.Flatbuffers.MinVersion
				opts.Timeout = cfg.Flatbuffers.CheckTimeout
			}
			version, err := toolchain.NewHealthChecker(a.platform, log).Check(cmd.Context(), tool, opts)
			if err != nil {
				return err
			}
			if version != nil {
				fmt.Fprintf(out, "version: %s\n", version)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Also run the tool health check (--version)")

	return cmd
}

// toolSettings picks the configured tool settings for name and the banner its
// --version output must contain.
func toolSettings(cfg *config.Config, name string) (config.ToolConfig, string) {
	switch name {
	case cfg.Proto.Tool.Name:
		return cfg.Proto.Tool, toolchain.ProtocBanner
	case cfg.Flatbuffers.Tool.Name:
		return cfg.Flatbuffers.Tool, toolchain.FlatcBanner
	default:
		return config.ToolConfig{Name: name, LocalDir: filepath.Join("opt", "bin")}, ""
	}
}
