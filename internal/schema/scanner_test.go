package schema

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protosol/protosol-build/internal/directive"
	pserrors "github.com/protosol/protosol-build/pkg/errors"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
	"github.com/protosol/protosol-build/pkg/platform/platformfakes"
)

func platformAt(wd string) platform.Platform {
	env := &platformfakes.FakeEnvironment{}
	env.GetwdReturns(wd, nil)
	return platform.WithEnvironment(platform.NewPlatform(), env)
}

func newTestScanner(p platform.Platform) (*Scanner, *bytes.Buffer) {
	var out bytes.Buffer
	log := logger.NewWithConfig(logger.Config{Level: logger.ERROR, Output: &bytes.Buffer{}})
	return NewScanner(p, directive.NewEmitter(&out, ""), log), &out
}

// workspace creates root/<dir> holding the named files and returns the
// canonical root.
func workspace(t *testing.T, dir string, files ...string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, dir, f), []byte("x"), 0o644))
	}
	return root
}

func TestScan_MatchesExtensionOnly(t *testing.T) {
	root := workspace(t, "proto", "b.proto", "a.proto", "notes.txt", "upper.PROTO", "a.proto.bak", ".proto", "noext")
	s, out := newTestScanner(platformAt(root))

	res, err := s.Scan(Request{Dir: "proto", TriggerKey: "PROTO_DIR", Extension: "proto"})
	require.NoError(t, err)

	dir := filepath.Join(root, "proto")
	assert.Equal(t, dir, res.Dir)
	want := []string{filepath.Join(dir, "a.proto"), filepath.Join(dir, "b.proto")}
	if diff := cmp.Diff(want, res.Files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	wantOut := strings.Join([]string{
		"cargo:rerun-if-changed=" + dir,
		"cargo:PROTO_DIR=" + dir,
		"cargo:rerun-if-changed=" + filepath.Join(dir, "a.proto"),
		"cargo:rerun-if-changed=" + filepath.Join(dir, "b.proto"),
	}, "\n") + "\n"
	assert.Equal(t, wantOut, out.String())
}

func TestScan_UnrelatedExtensionIgnored(t *testing.T) {
	root := workspace(t, "proto", "a.proto", "b.proto", "readme.txt")
	s, _ := newTestScanner(platformAt(root))

	res, err := s.Scan(Request{Dir: "proto", TriggerKey: "PROTO_DIR", Extension: ".proto"})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	for _, f := range res.Files {
		assert.Equal(t, ".proto", filepath.Ext(f))
		assert.Equal(t, res.Dir, filepath.Dir(f))
	}
}

func TestScan_EmptyDirectory(t *testing.T) {
	root := workspace(t, "flatbuffers")
	s, out := newTestScanner(platformAt(root))

	res, err := s.Scan(Request{Dir: "flatbuffers", TriggerKey: "FLATBUFFERS_DIR", Extension: "fbs"})
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.Contains(t, out.String(), "cargo:rerun-if-changed="+filepath.Join(root, "flatbuffers")+"\n",
		"the directory itself is still a trigger")
}

func TestScan_SkipsSubdirectories(t *testing.T) {
	root := workspace(t, "fbs", "monster.fbs")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "fbs", "nested.fbs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "fbs", "nested.fbs", "deep.fbs"), []byte("x"), 0o644))
	s, _ := newTestScanner(platformAt(root))

	res, err := s.Scan(Request{Dir: "fbs", TriggerKey: "FLATBUFFERS_DIR", Extension: "fbs"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "fbs", "monster.fbs")}, res.Files)
}

func TestScan_Exclude(t *testing.T) {
	root := workspace(t, "proto", "api.proto", "internal_debug.proto", "internal_trace.proto")
	s, out := newTestScanner(platformAt(root))

	res, err := s.Scan(Request{Dir: "proto", TriggerKey: "PROTO_DIR", Extension: "proto", Exclude: []string{"internal_*"}})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "proto", "api.proto")}, res.Files)
	assert.NotContains(t, out.String(), "internal_")
}

func TestScan_AbsoluteAndSymlinkedDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := workspace(t, "real", "a.proto")
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))
	s, out := newTestScanner(platformAt("/somewhere/else"))

	res, err := s.Scan(Request{Dir: filepath.Join(root, "link"), TriggerKey: "PROTO_DIR", Extension: "proto"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "real"), res.Dir)
	assert.Contains(t, out.String(), "cargo:PROTO_DIR="+filepath.Join(root, "real")+"\n")
}

func TestScan_ResolutionErrors(t *testing.T) {
	root := workspace(t, "proto", "a.proto")

	t.Run("missing directory", func(t *testing.T) {
		s, out := newTestScanner(platformAt(root))
		_, err := s.Scan(Request{Dir: "nope", TriggerKey: "PROTO_DIR", Extension: "proto"})
		require.Error(t, err)
		assert.True(t, pserrors.IsDirectoryResolutionError(err))
		assert.Empty(t, out.String())
	})

	t.Run("file instead of directory", func(t *testing.T) {
		s, _ := newTestScanner(platformAt(root))
		_, err := s.Scan(Request{Dir: filepath.Join("proto", "a.proto"), TriggerKey: "PROTO_DIR", Extension: "proto"})
		assert.True(t, pserrors.IsDirectoryResolutionError(err))
	})

	t.Run("working directory unavailable", func(t *testing.T) {
		env := &platformfakes.FakeEnvironment{}
		env.GetwdReturns("", errors.New("getwd: no such file or directory"))
		s, _ := newTestScanner(platform.WithEnvironment(platform.NewPlatform(), env))

		_, err := s.Scan(Request{Dir: "proto", TriggerKey: "PROTO_DIR", Extension: "proto"})
		assert.True(t, pserrors.IsDirectoryResolutionError(err))
	})
}

type brokenEntry struct{ name string }

func (e brokenEntry) Name() string               { return e.name }
func (e brokenEntry) IsDir() bool                { return false }
func (e brokenEntry) Type() fs.FileMode          { return 0 }
func (e brokenEntry) Info() (fs.FileInfo, error) { return nil, fs.ErrPermission }

// readDirPlatform overrides ReadDir on top of a real platform.
type readDirPlatform struct {
	platform.Platform
	readDir func(string) ([]os.DirEntry, error)
}

func (p readDirPlatform) ReadDir(name string) ([]os.DirEntry, error) {
	return p.readDir(name)
}

func TestScan_ReadErrorsAbort(t *testing.T) {
	root := workspace(t, "proto", "a.proto")

	t.Run("listing fails", func(t *testing.T) {
		p := readDirPlatform{Platform: platformAt(root), readDir: func(string) ([]os.DirEntry, error) {
			return nil, fs.ErrPermission
		}}
		s, _ := newTestScanner(p)

		_, err := s.Scan(Request{Dir: "proto", TriggerKey: "PROTO_DIR", Extension: "proto"})
		require.Error(t, err)
		assert.True(t, pserrors.IsDirectoryReadError(err))
		assert.ErrorIs(t, err, fs.ErrPermission)
	})

	t.Run("one entry cannot be stat'd", func(t *testing.T) {
		base := platformAt(root)
		p := readDirPlatform{Platform: base, readDir: func(name string) ([]os.DirEntry, error) {
			entries, err := base.ReadDir(name)
			return append(entries, brokenEntry{name: "z.proto"}), err
		}}
		s, out := newTestScanner(p)

		res, err := s.Scan(Request{Dir: "proto", TriggerKey: "PROTO_DIR", Extension: "proto"})
		require.Error(t, err)
		assert.Nil(t, res)
		assert.True(t, pserrors.IsDirectoryReadError(err))
		path, ok := pserrors.GetPath(err)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "proto", "z.proto"), path)
		assert.NotContains(t, out.String(), "a.proto", "no partial file triggers")
	})
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"a.proto":       "proto",
		"a.b.fbs":       "fbs",
		"a.":            "",
		"noext":         "",
		".proto":        "",
		".hidden.proto": "proto",
		"UPPER.PROTO":   "PROTO",
	}
	for name, want := range tests {
		assert.Equal(t, want, extension(name), name)
	}
}
