package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

const (
	// MB is one mebibyte.
	MB int64 = 1 << 20
	// GB is one gibibyte.
	GB int64 = 1 << 30
)

// FormatSize renders a byte count for display.
// Examples: "500 B", "12,345 B", "2.0 MB", "3.0 GB".
func FormatSize(b int64) string {
	switch {
	case b >= GB:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(MB))
	default:
		return groupThousands(b) + " B"
	}
}

// groupThousands inserts comma separators every three digits.
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// ParseSize parses a human size such as "100MB", "1.5g" or "4096" into bytes.
// Units are binary (1 MB = 1 MiB) to match FormatSize.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size %q: must not be negative", s)
	}
	return n, nil
}
