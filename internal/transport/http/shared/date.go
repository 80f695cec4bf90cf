package shared

import (
	"strings"
	"time"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ParseDateList validates each entry of a list of YYYY-MM-DD dates and
// returns the trimmed values. Empty entries are dropped.
func ParseDateList(values []string) ([]string, bool) {
	out := make([]string, 0, len(values))
	for _, raw := range values {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", trimmed); err != nil {
			return nil, false
		}
		out = append(out, trimmed)
	}
	return out, true
}
