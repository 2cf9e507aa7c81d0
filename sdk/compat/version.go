package compat

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dotted version strings component-wise.
// Missing trailing components count as zero, as do components that fail to
// parse as integers; the host applies the same lenient rule, so "7" == "7.0"
// and "6.x" == "6.0". Returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	as := strings.Split(strings.TrimSpace(a), ".")
	bs := strings.Split(strings.TrimSpace(b), ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		av := versionComponent(as, i)
		bv := versionComponent(bs, i)
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

// AtLeast reports whether current is greater than or equal to min.
func AtLeast(current, min string) bool {
	return CompareVersions(current, min) >= 0
}

func versionComponent(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(parts[i])
	if err != nil || v < 0 {
		return 0
	}
	return v
}
