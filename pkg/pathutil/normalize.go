// Package pathutil makes canonicalized paths safe to hand to external
// compilers and to embed in textual build directives.
package pathutil

import "strings"

const (
	extendedPrefix    = `\\?\`
	extendedUNCPrefix = `\\?\UNC\`
)

// Normalize strips the Windows extended-length marker from path. On every
// other platform it returns path unchanged. Normalize is idempotent and
// never fails: input that does not carry the marker passes through.
func Normalize(path string) string {
	return normalize(path)
}

// StripExtendedPrefix removes leading `\\?\` markers regardless of the
// running platform. `\\?\UNC\server\share` becomes `\\server\share`.
// Repeated markers are all removed so the result is a fixed point.
func StripExtendedPrefix(path string) string {
	for {
		switch {
		case strings.HasPrefix(path, extendedUNCPrefix):
			path = `\\` + path[len(extendedUNCPrefix):]
		case strings.HasPrefix(path, extendedPrefix):
			path = path[len(extendedPrefix):]
		default:
			return path
		}
	}
}
