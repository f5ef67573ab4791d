package toolchain

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protosol/protosol-build/pkg/config"
	"github.com/protosol/protosol-build/pkg/errors"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
	"github.com/protosol/protosol-build/pkg/platform/platformfakes"
)

func quietLogger() *logger.Logger {
	return logger.NewWithConfig(logger.Config{Level: logger.ERROR, Output: &bytes.Buffer{}})
}

func envPlatform(env map[string]string) (platform.Platform, *platformfakes.FakeEnvironment) {
	fake := &platformfakes.FakeEnvironment{}
	fake.LookupEnvStub = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return platform.WithEnvironment(platform.NewPlatform(), fake), fake
}

func protocConfig() config.ToolConfig {
	return config.ToolConfig{Name: "protoc", LocalDir: filepath.Join("opt", "bin")}
}

// installLocal places an empty executable at root/opt/bin/<name>.
func installLocal(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, "opt", "bin")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, nil, 0o755))
	return path
}

func TestResolve_Precedence(t *testing.T) {
	root := t.TempDir()
	local := installLocal(t, root, "protoc")

	tests := []struct {
		name       string
		env        map[string]string
		wantPath   string
		wantSource string
	}{
		{
			name:       "tool-specific variable wins over project variable",
			env:        map[string]string{"PROTOC_EXECUTABLE": "/a/protoc", "PROTOSOL_PROTOC": "/b/protoc"},
			wantPath:   "/a/protoc",
			wantSource: "env PROTOC_EXECUTABLE",
		},
		{
			name:       "project variable",
			env:        map[string]string{"PROTOSOL_PROTOC": "/b/protoc"},
			wantPath:   "/b/protoc",
			wantSource: "env PROTOSOL_PROTOC",
		},
		{
			name:       "empty variable counts as unset",
			env:        map[string]string{"PROTOC_EXECUTABLE": "", "PROTOSOL_PROTOC": "/b/protoc"},
			wantPath:   "/b/protoc",
			wantSource: "env PROTOSOL_PROTOC",
		},
		{
			name:       "local installation",
			env:        map[string]string{},
			wantPath:   local,
			wantSource: "local " + local,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := envPlatform(tt.env)
			r := NewResolver(quietLogger(), DefaultStrategies(protocConfig(), p, root)...)

			tool, err := r.Resolve("protoc")
			require.NoError(t, err)
			assert.Equal(t, "protoc", tool.Name)
			assert.Equal(t, tt.wantPath, tool.Path)
			assert.Equal(t, tt.wantSource, tool.Source)
		})
	}
}

func TestResolve_EnvPathsAreNotValidated(t *testing.T) {
	p, _ := envPlatform(map[string]string{"FLATC_EXECUTABLE": "/does/not/exist"})
	r := NewResolver(quietLogger(), DefaultStrategies(config.ToolConfig{Name: "flatc"}, p, t.TempDir())...)

	tool, err := r.Resolve("flatc")
	require.NoError(t, err)
	assert.Equal(t, "/does/not/exist", tool.Path)
}

func TestResolve_NotFound(t *testing.T) {
	p, fake := envPlatform(map[string]string{"PATH": os.Getenv("PATH")})
	root := t.TempDir()
	r := NewResolver(quietLogger(), DefaultStrategies(protocConfig(), p, root)...)

	tool, err := r.Resolve("protoc")
	require.Error(t, err)
	assert.Nil(t, tool)
	assert.True(t, errors.IsToolNotFoundError(err))

	name, ok := errors.GetTool(err)
	require.True(t, ok)
	assert.Equal(t, "protoc", name)
	assert.Contains(t, err.Error(), "env PROTOC_EXECUTABLE, env PROTOSOL_PROTOC, local "+filepath.Join(root, "opt", "bin", "protoc"))
	assert.NotContains(t, err.Error(), "PATH", "PATH lookup is opt-in")

	assert.Equal(t, 2, fake.LookupEnvCallCount())
	assert.Equal(t, "PROTOC_EXECUTABLE", fake.LookupEnvArgsForCall(0))
	assert.Equal(t, "PROTOSOL_PROTOC", fake.LookupEnvArgsForCall(1))
}

func TestResolve_CustomVariables(t *testing.T) {
	p, _ := envPlatform(map[string]string{"PROTOC_EXECUTABLE": "/ignored", "MY_PROTOC": "/mine"})
	cfg := protocConfig()
	cfg.Env = []string{"MY_PROTOC"}

	tool, err := NewResolver(quietLogger(), DefaultStrategies(cfg, p, t.TempDir())...).Resolve("protoc")
	require.NoError(t, err)
	assert.Equal(t, "/mine", tool.Path)
}

func TestResolve_SearchPath(t *testing.T) {
	bin := t.TempDir()
	name := "protosol-fake-tool"
	if platform.NewPlatform().Info().IsWindows() {
		name += ".exe"
	}
	path := filepath.Join(bin, name)
	require.NoError(t, os.WriteFile(path, nil, 0o755))
	t.Setenv("PATH", bin)

	p, _ := envPlatform(map[string]string{})
	cfg := config.ToolConfig{Name: "protosol-fake-tool", SearchPath: true}

	tool, err := NewResolver(quietLogger(), DefaultStrategies(cfg, p, t.TempDir())...).Resolve("protosol-fake-tool")
	require.NoError(t, err)
	assert.Equal(t, path, tool.Path)
	assert.Equal(t, "PATH", tool.Source)
}

func TestLocalInstallStrategy_WindowsSuffix(t *testing.T) {
	root := t.TempDir()
	exe := installLocal(t, root, "flatc.exe")

	s := &LocalInstallStrategy{Root: root, Dir: filepath.Join("opt", "bin"), FS: platform.NewPlatform(), Windows: true}
	path, ok := s.Locate("flatc")
	require.True(t, ok)
	assert.Equal(t, exe, path)

	s.Windows = false
	_, ok = s.Locate("flatc")
	assert.False(t, ok)
}
