//go:build !windows

package pathutil

func normalize(path string) string {
	return path
}
