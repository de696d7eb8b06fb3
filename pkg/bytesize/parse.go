// Package bytesize parses sizes such as "512KB" or "1.5MB".
package bytesize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Units are binary: 1KB is 1024 bytes. Longest suffix first.
var units = []struct {
	suffix string
	bytes  int64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// Parse converts a size string to bytes. Units are case-insensitive and
// required.
func Parse(s string) (int64, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if upper == "" {
		return 0, fmt.Errorf("empty size")
	}

	for _, u := range units {
		num, ok := strings.CutSuffix(upper, u.suffix)
		if !ok {
			continue
		}
		num = strings.TrimSpace(num)
		if num == "" {
			return 0, fmt.Errorf("size %q has no value", s)
		}
		value, err := strconv.ParseFloat(num, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, fmt.Errorf("size %q has an invalid value", s)
		}
		if value < 0 {
			return 0, fmt.Errorf("size %q is negative", s)
		}
		total := value * float64(u.bytes)
		if total >= math.MaxInt64 {
			return 0, fmt.Errorf("size %q is too large", s)
		}
		return int64(total), nil
	}
	return 0, fmt.Errorf("size %q has no unit (B, KB, MB, GB or TB)", s)
}
