package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTimestamp turns a number of seconds into an HH:MM:SS display
// string. Fractional seconds are dropped, negative values clamp to 0
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}

	whole := int64(seconds)

	hours := whole / 3600
	remaining := whole % 3600
	minutes := remaining / 60
	secs := remaining % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// ParseTimestamp converts an H:MM:SS or MM:SS display string back
// into seconds. The frontend does the same colon-split arithmetic, so
// any change here has to be mirrored there
func ParseTimestamp(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("malformed timestamp %q", s)
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("malformed timestamp %q", s)
		}

		total = total*60 + n
	}

	return float64(total), nil
}
