package platform

import (
	"context"
	"io"
	"os"
)

//go:generate go tool counterfeiter -generate

// Platform bundles every process-wide dependency of the build pipeline:
// environment, working directory, filesystem and subprocesses. Components
// take it as an explicit input instead of reaching for the os package.
type Platform interface {
	Environment
	FileSystem
	ExecOperations

	// Info reports the operating system the paths and executables belong to.
	Info() Info
}

// Environment defines environment variable and working directory lookups
//
//counterfeiter:generate . Environment
type Environment interface {
	Getenv(key string) string
	LookupEnv(key string) (string, bool)
	Getwd() (string, error)
}

// FileSystem defines the file operations the scanner, resolver and compilers need
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	ReadDir(name string) ([]os.DirEntry, error)
	ReadFile(path string) ([]byte, error)
	EvalSymlinks(path string) (string, error)
	MkdirAll(dir string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
	IsNotExist(err error) bool

	// Additional helpers
	DirExists(path string) bool
	FileExists(path string) bool
}

// ExecOperations defines executable resolution and subprocess creation
type ExecOperations interface {
	LookPath(file string) (string, error)
	CommandContext(ctx context.Context, name string, args ...string) Command
}

// Command represents a subprocess that has not been started yet
type Command interface {
	SetStdout(w io.Writer)
	SetStderr(w io.Writer)
	SetDir(dir string)
	SetEnv(env []string)
	Run() error
}

// Info provides information about the current platform
type Info struct {
	OS           string
	Architecture string
}

// IsWindows reports whether executables need an .exe suffix and paths may
// carry the extended-length marker.
func (i Info) IsWindows() bool {
	return i.OS == "windows"
}
