package platform

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// OSPlatform is the Platform backed by the running process
type OSPlatform struct{}

func (p *OSPlatform) Getenv(key string) string {
	return os.Getenv(key)
}

func (p *OSPlatform) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (p *OSPlatform) Getwd() (string, error) {
	return os.Getwd()
}

func (p *OSPlatform) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (p *OSPlatform) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

func (p *OSPlatform) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (p *OSPlatform) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

func (p *OSPlatform) MkdirAll(dir string, perm os.FileMode) error {
	return os.MkdirAll(dir, perm)
}

func (p *OSPlatform) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (p *OSPlatform) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}

// DirExists checks if a directory exists
func (p *OSPlatform) DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FileExists checks if a file exists
func (p *OSPlatform) FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func (p *OSPlatform) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (p *OSPlatform) CommandContext(ctx context.Context, name string, args ...string) Command {
	return &ExecCommand{cmd: exec.CommandContext(ctx, name, args...)}
}

func (p *OSPlatform) Info() Info {
	return Info{OS: runtime.GOOS, Architecture: runtime.GOARCH}
}

// ExecCommand wraps exec.Cmd to implement Command interface
type ExecCommand struct {
	cmd *exec.Cmd
}

func (e *ExecCommand) SetStdout(w io.Writer) {
	e.cmd.Stdout = w
}

func (e *ExecCommand) SetStderr(w io.Writer) {
	e.cmd.Stderr = w
}

func (e *ExecCommand) SetDir(dir string) {
	e.cmd.Dir = dir
}

func (e *ExecCommand) SetEnv(env []string) {
	e.cmd.Env = env
}

func (e *ExecCommand) Run() error {
	return e.cmd.Run()
}
