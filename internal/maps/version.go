package maps

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidClientVersion is returned for unparseable version strings.
var ErrInvalidClientVersion = errors.New("invalid client version")

// ClientVersion packs major.minor.build.revision into one comparable value.
// The zero value means the version is unknown.
type ClientVersion uint32

// CV4011D is the first client with the expanded Felucca/Trammel maps.
const CV4011D = ClientVersion(4<<24 | 0<<16 | 11<<8 | 4)

// NewClientVersion packs the four version components.
func NewClientVersion(major, minor, build, revision uint8) ClientVersion {
	return ClientVersion(uint32(major)<<24 | uint32(minor)<<16 | uint32(build)<<8 | uint32(revision))
}

// ParseClientVersion parses "4.0.11d" or "7.0.15.1". An empty string yields the unknown version.
func ParseClientVersion(s string) (ClientVersion, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, nil
	}

	parts := strings.Split(s, ".")
	if len(parts) < 3 || len(parts) > 4 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClientVersion, s)
	}

	var revision uint64
	if len(parts) == 3 {
		// Trailing letter is the revision: a=1, b=2, ...
		last := parts[2]
		if n := len(last); n > 0 && last[n-1] >= 'a' && last[n-1] <= 'z' {
			revision = uint64(last[n-1]-'a') + 1
			parts[2] = last[:n-1]
		}
	} else {
		r, err := strconv.ParseUint(parts[3], 10, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClientVersion, s)
		}
		revision = r
	}

	var nums [3]uint64
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseUint(parts[i], 10, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClientVersion, s)
		}
		nums[i] = n
	}

	return NewClientVersion(uint8(nums[0]), uint8(nums[1]), uint8(nums[2]), uint8(revision)), nil
}

// Known reports whether the version was detected.
func (v ClientVersion) Known() bool {
	return v != 0
}

// String returns the version as "major.minor.build.revision".
func (v ClientVersion) String() string {
	if !v.Known() {
		return "unknown"
	}
	return fmt.Sprintf("%d.%d.%d.%d", uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v))
}
