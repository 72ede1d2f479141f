// Package formatting parses and formats byte sizes and recovers JSON payloads
// from model output.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const unit = 1024

var suffixes = []string{"B", "KB", "MB", "GB", "TB"}

// exponents maps each accepted suffix to its power of 1024. The IEC
// spellings are accepted as aliases.
var exponents = map[string]int{
	"": 0, "B": 0,
	"KB": 1, "KIB": 1,
	"MB": 2, "MIB": 2,
	"GB": 3, "GIB": 3,
	"TB": 4, "TIB": 4,
}

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// FormatBytes renders n with the largest suffix that keeps the value at or
// above 1, for example 1.5 MB.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	size := float64(n)
	i := 0
	for math.Abs(size) >= unit && i < len(suffixes)-1 {
		size /= unit
		i++
	}

	if i == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	return strconv.FormatFloat(size, 'f', precision, 64) + " " + suffixes[i]
}

// ParseBytes reads sizes such as "16MB", "512 KiB" or "1024". Suffixes are
// base-1024 and case-insensitive; a bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	exp, ok := exponents[strings.ToUpper(m[2])]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit %q", m[2])
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	bytes := value * math.Pow(unit, float64(exp))
	if bytes >= math.MaxInt64 {
		return 0, fmt.Errorf("byte size %q overflows", s)
	}
	return int64(bytes), nil
}
