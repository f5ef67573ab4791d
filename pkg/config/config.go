package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/protosol/protosol-build/pkg/errors"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
	"github.com/protosol/protosol-build/pkg/semver"
)

// Config holds the complete build configuration
type Config struct {
	// ProjectRoot anchors the local tool installation (opt/bin) and the
	// config file search. It is never read from the config file itself.
	ProjectRoot        string            `yaml:"-" json:"project_root"`
	OutDir             string            `yaml:"out_dir" json:"out_dir"`
	DirectiveNamespace string            `yaml:"directive_namespace" json:"directive_namespace"`
	Proto              ProtoConfig       `yaml:"proto" json:"proto"`
	Flatbuffers        FlatbuffersConfig `yaml:"flatbuffers" json:"flatbuffers"`
	Logging            LoggingConfig     `yaml:"logging" json:"logging"`
}

// SchemaConfig describes one schema directory and how its files are compiled
type SchemaConfig struct {
	Dir        string   `yaml:"dir" json:"dir"`
	TriggerKey string   `yaml:"trigger_key" json:"trigger_key"`
	Extension  string   `yaml:"extension" json:"extension"`
	Exclude    []string `yaml:"exclude" json:"exclude"`
	Includes   []string `yaml:"includes" json:"includes"`
	ExtraArgs  []string `yaml:"extra_args" json:"extra_args"`
}

// ToolConfig controls how an external compiler is located
type ToolConfig struct {
	Name string `yaml:"name" json:"name"`
	// Env lists override variables in precedence order. Empty means
	// <NAME>_EXECUTABLE followed by PROTOSOL_<NAME>.
	Env        []string `yaml:"env" json:"env"`
	LocalDir   string   `yaml:"local_dir" json:"local_dir"`
	SearchPath bool     `yaml:"search_path" json:"search_path"`
}

// OutputConfig selects one protoc generator: --<plugin>_out=[<options>:]<out_dir>
type OutputConfig struct {
	Plugin  string `yaml:"plugin" json:"plugin"`
	Options string `yaml:"options" json:"options"`
}

// ProtoConfig holds protobuf compilation settings
type ProtoConfig struct {
	SchemaConfig `yaml:",inline"`
	Tool         ToolConfig     `yaml:"tool" json:"tool"`
	Outputs      []OutputConfig `yaml:"outputs" json:"outputs"`

	// Precheck parses and links the schemas in-process before protoc runs.
	Precheck bool `yaml:"precheck" json:"precheck"`
	// DescriptorSetOut, when set, receives a FileDescriptorSet produced by the
	// precheck. Relative paths are placed under OutDir.
	DescriptorSetOut string `yaml:"descriptor_set_out" json:"descriptor_set_out"`
}

// FlatbuffersConfig holds flatbuffer compilation settings
type FlatbuffersConfig struct {
	SchemaConfig `yaml:",inline"`
	Tool         ToolConfig    `yaml:"tool" json:"tool"`
	Lang         string        `yaml:"lang" json:"lang"`
	MinVersion   string        `yaml:"min_version" json:"min_version"`
	CheckTimeout time.Duration `yaml:"check_timeout" json:"check_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// DefaultConfig mirrors the conventional project layout: proto/ and
// flatbuffers/ next to the build, compilers under opt/bin.
func DefaultConfig() Config {
	return Config{
		DirectiveNamespace: "cargo",
		Proto: ProtoConfig{
			SchemaConfig: SchemaConfig{
				Dir:        "proto",
				TriggerKey: "PROTO_DIR",
				Extension:  "proto",
			},
			Tool: ToolConfig{Name: "protoc", LocalDir: filepath.Join("opt", "bin")},
			Outputs: []OutputConfig{
				{Plugin: "go", Options: "paths=source_relative"},
			},
		},
		Flatbuffers: FlatbuffersConfig{
			SchemaConfig: SchemaConfig{
				Dir:        "flatbuffers",
				TriggerKey: "FLATBUFFERS_DIR",
				Extension:  "fbs",
			},
			Tool:         ToolConfig{Name: "flatc", LocalDir: filepath.Join("opt", "bin")},
			Lang:         "go",
			CheckTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// EnvNames returns the override variables for the tool in precedence order.
func (t ToolConfig) EnvNames() []string {
	if len(t.Env) > 0 {
		return t.Env
	}
	upper := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(t.Name))
	return []string{upper + "_EXECUTABLE", "PROTOSOL_" + upper}
}

// LoadOptions carries command-line values. Non-empty fields win over the
// config file and the environment.
type LoadOptions struct {
	ConfigPath  string
	ProjectRoot string
	OutDir      string
	Namespace   string
	LogLevel    string
	Precheck    *bool
	// AllowMissingOutDir skips the output directory requirement for commands
	// that never compile, such as tool resolution.
	AllowMissingOutDir bool
}

// Load builds the configuration in layers:
//
//  1. built-in defaults
//  2. the first config file found: opts.ConfigPath, $PROTOSOL_CONFIG_PATH,
//     <root>/protosol.yml, <root>/protosol.yaml
//  3. environment: OUT_DIR, PROTOSOL_DIRECTIVE_NAMESPACE, PROTOSOL_LOG_LEVEL
//  4. opts
//
// The project root is opts.ProjectRoot, $PROTOSOL_PROJECT_ROOT,
// $CARGO_MANIFEST_DIR or the working directory, in that order.
// Returns (config, configSource, error).
func Load(p platform.Platform, opts LoadOptions) (*Config, string, error) {
	config := DefaultConfig()

	root, err := resolveProjectRoot(p, opts.ProjectRoot)
	if err != nil {
		return nil, "", err
	}
	config.ProjectRoot = root

	source, err := loadFromFile(p, &config, root, opts.ConfigPath)
	if err != nil {
		return nil, "", err
	}

	if val, ok := p.LookupEnv("OUT_DIR"); ok && val != "" {
		config.OutDir = val
	}
	if val, ok := p.LookupEnv("PROTOSOL_DIRECTIVE_NAMESPACE"); ok && val != "" {
		config.DirectiveNamespace = val
	}
	if val, ok := p.LookupEnv("PROTOSOL_LOG_LEVEL"); ok && val != "" {
		config.Logging.Level = val
	}

	if opts.OutDir != "" {
		config.OutDir = opts.OutDir
	}
	if opts.Namespace != "" {
		config.DirectiveNamespace = opts.Namespace
	}
	if opts.LogLevel != "" {
		config.Logging.Level = opts.LogLevel
	}
	if opts.Precheck != nil {
		config.Proto.Precheck = *opts.Precheck
	}

	config.Proto.Extension = strings.TrimPrefix(config.Proto.Extension, ".")
	config.Flatbuffers.Extension = strings.TrimPrefix(config.Flatbuffers.Extension, ".")

	if err := config.validate(!opts.AllowMissingOutDir); err != nil {
		return nil, "", err
	}

	return &config, source, nil
}

func resolveProjectRoot(p platform.Platform, explicit string) (string, error) {
	root := explicit
	for _, key := range []string{"PROTOSOL_PROJECT_ROOT", "CARGO_MANIFEST_DIR"} {
		if root != "" {
			break
		}
		if val, ok := p.LookupEnv(key); ok {
			root = val
		}
	}

	wd, err := p.Getwd()
	if err != nil {
		return "", errors.NewConfigError("project", "root", fmt.Errorf("working directory: %w", err))
	}
	if root == "" {
		return wd, nil
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(wd, root)
	}
	return filepath.Clean(root), nil
}

// loadFromFile decodes the first config file found into config. A missing
// default file is not an error; a missing explicit file is.
func loadFromFile(p platform.Platform, config *Config, root, explicit string) (string, error) {
	if explicit != "" {
		if !p.FileExists(explicit) {
			return "", errors.NewConfigError("file", "", fmt.Errorf("config file %s does not exist", explicit))
		}
		return explicit, decodeFile(p, config, explicit)
	}

	configPaths := []string{
		p.Getenv("PROTOSOL_CONFIG_PATH"),
		filepath.Join(root, "protosol.yml"),
		filepath.Join(root, "protosol.yaml"),
	}

	for _, path := range configPaths {
		if path == "" || !p.FileExists(path) {
			continue
		}
		return path, decodeFile(p, config, path)
	}

	return "built-in defaults (no config file found)", nil
}

func decodeFile(p platform.Platform, config *Config, path string) error {
	data, err := p.ReadFile(path)
	if err != nil {
		return errors.NewConfigError("file", "", fmt.Errorf("failed to read config file %s: %w", path, err))
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.NewConfigError("file", "", fmt.Errorf("failed to parse config file %s: %w", path, err))
	}
	return nil
}

// Validate checks every value that would otherwise surface as a confusing
// compiler or directive failure later in the build.
// Returns error describing the first validation failure found.
func (c *Config) Validate() error {
	return c.validate(true)
}

func (c *Config) validate(requireOutDir bool) error {
	if requireOutDir && c.OutDir == "" {
		return errors.NewConfigError("build", "out_dir", fmt.Errorf("output directory is required (set OUT_DIR or --out-dir)"))
	}

	if c.DirectiveNamespace == "" || strings.ContainsAny(c.DirectiveNamespace, ":= \t\r\n") {
		return errors.NewConfigError("build", "directive_namespace", fmt.Errorf("invalid namespace %q", c.DirectiveNamespace))
	}

	if err := c.Proto.SchemaConfig.validate("proto"); err != nil {
		return err
	}
	if err := c.Proto.Tool.validate("proto"); err != nil {
		return err
	}
	if len(c.Proto.Outputs) == 0 {
		return errors.NewConfigError("proto", "outputs", fmt.Errorf("at least one output generator is required"))
	}
	for _, out := range c.Proto.Outputs {
		if out.Plugin == "" || strings.ContainsAny(out.Plugin, "= \t") {
			return errors.NewConfigError("proto", "outputs", fmt.Errorf("invalid plugin name %q", out.Plugin))
		}
	}
	if c.Proto.DescriptorSetOut != "" && !c.Proto.Precheck {
		return errors.NewConfigError("proto", "descriptor_set_out", fmt.Errorf("requires precheck to be enabled"))
	}

	if err := c.Flatbuffers.SchemaConfig.validate("flatbuffers"); err != nil {
		return err
	}
	if err := c.Flatbuffers.Tool.validate("flatbuffers"); err != nil {
		return err
	}
	if c.Flatbuffers.Lang == "" {
		return errors.NewConfigError("flatbuffers", "lang", fmt.Errorf("target language is required"))
	}
	if c.Flatbuffers.MinVersion != "" {
		if _, err := semver.NewVersion(c.Flatbuffers.MinVersion); err != nil {
			return errors.NewConfigError("flatbuffers", "min_version", err)
		}
	}
	if c.Flatbuffers.CheckTimeout <= 0 {
		return errors.NewConfigError("flatbuffers", "check_timeout", fmt.Errorf("must be positive, got %s", c.Flatbuffers.CheckTimeout))
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return errors.NewConfigError("logging", "level", err)
	}

	return nil
}

func (s SchemaConfig) validate(component string) error {
	if s.Dir == "" {
		return errors.NewConfigError(component, "dir", fmt.Errorf("schema directory is required"))
	}
	if s.Extension == "" || strings.ContainsAny(s.Extension, `/\.`) {
		return errors.NewConfigError(component, "extension", fmt.Errorf("invalid extension %q", s.Extension))
	}
	if s.TriggerKey == "" || strings.ContainsAny(s.TriggerKey, ":= \t\r\n") {
		return errors.NewConfigError(component, "trigger_key", fmt.Errorf("invalid key %q", s.TriggerKey))
	}
	for _, pattern := range s.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.NewConfigError(component, "exclude", fmt.Errorf("invalid pattern %q", pattern))
		}
	}
	return nil
}

func (t ToolConfig) validate(component string) error {
	if t.Name == "" || strings.ContainsAny(t.Name, `/\`) {
		return errors.NewConfigError(component, "tool.name", fmt.Errorf("invalid tool name %q", t.Name))
	}
	for _, env := range t.EnvNames() {
		if env == "" || strings.ContainsAny(env, "= \t") {
			return errors.NewConfigError(component, "tool.env", fmt.Errorf("invalid variable name %q", env))
		}
	}
	return nil
}
