// Package directive writes build-invalidation directives for the host build.
//
// Each directive is a single line on the emitter's writer:
//
//	<namespace>:rerun-if-changed=<path>
//	<namespace>:<key>=<value>
//
// The default namespace is "cargo", the protocol read by Cargo build scripts.
package directive

import (
	"fmt"
	"io"
	"strings"

	"github.com/protosol/protosol-build/pkg/errors"
)

const DefaultNamespace = "cargo"

// Emitter is not safe for concurrent use; the pipeline is single threaded.
type Emitter struct {
	w         io.Writer
	namespace string
}

// NewEmitter returns an emitter writing to w. An empty namespace selects
// DefaultNamespace.
func NewEmitter(w io.Writer, namespace string) *Emitter {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Emitter{w: w, namespace: namespace}
}

func (e *Emitter) Namespace() string {
	return e.namespace
}

// RerunIfChanged declares that a change to path invalidates the build.
func (e *Emitter) RerunIfChanged(path string) error {
	return e.emit("rerun-if-changed", path)
}

// SetVar publishes a named value for downstream consumers.
func (e *Emitter) SetVar(key, value string) error {
	if key == "" || strings.ContainsAny(key, ":=") {
		return errors.NewDirectiveError(fmt.Errorf("invalid key %q", key))
	}
	return e.emit(key, value)
}

func (e *Emitter) emit(key, value string) error {
	if strings.ContainsAny(key, "\r\n") || strings.ContainsAny(value, "\r\n") {
		return errors.NewDirectiveError(fmt.Errorf("line break in %s directive %q", key, value))
	}
	if _, err := fmt.Fprintf(e.w, "%s:%s=%s\n", e.namespace, key, value); err != nil {
		return errors.NewDirectiveError(err)
	}
	return nil
}
