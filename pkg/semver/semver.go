package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version represents a compiler version with major, minor, and patch components.
// Compilers are not consistent about patch numbers ("libprotoc 25.1",
// "flatc version 23.5.26"), so a missing patch is read as zero.
type Version struct {
	major int
	minor int
	patch int
}

var versionToken = regexp.MustCompile(`v?[0-9]+\.[0-9]+(\.[0-9]+)?`)

// NewVersion parses a version string of the form MAJOR.MINOR[.PATCH], with an
// optional "v" prefix and an ignored pre-release or build suffix ("-rc1", "+g1a2b").
func NewVersion(version string) (*Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if i := strings.IndexAny(version, "-+"); i >= 0 {
		version = version[:i]
	}

	parts := strings.Split(version, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("invalid version format: expected MAJOR.MINOR[.PATCH], got %q", version)
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid version component %q: %w", part, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("version components must be non-negative")
		}
		nums[i] = n
	}

	return &Version{
		major: nums[0],
		minor: nums[1],
		patch: nums[2],
	}, nil
}

// Extract finds the first version number in a tool's banner output, e.g.
// "flatc version 23.5.26" or "libprotoc 25.1".
func Extract(output string) (*Version, error) {
	token := versionToken.FindString(output)
	if token == "" {
		return nil, fmt.Errorf("no version number in %q", strings.TrimSpace(output))
	}
	return NewVersion(token)
}

// GreaterThan returns true if v is greater than other
func (v *Version) GreaterThan(other *Version) bool {
	if v.major != other.major {
		return v.major > other.major
	}
	if v.minor != other.minor {
		return v.minor > other.minor
	}
	return v.patch > other.patch
}

// String returns the string representation of the version
func (v *Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// Equal returns true if v equals other
func (v *Version) Equal(other *Version) bool {
	return v.major == other.major && v.minor == other.minor && v.patch == other.patch
}

// LessThan returns true if v is less than other
func (v *Version) LessThan(other *Version) bool {
	return !v.GreaterThan(other) && !v.Equal(other)
}

// AtLeast returns true if v is greater than or equal to minimum
func (v *Version) AtLeast(minimum *Version) bool {
	return !v.LessThan(minimum)
}
