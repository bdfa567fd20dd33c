package lint

import (
	"strconv"
	"strings"
)

// Rule options arrive from YAML, JSON and environment variables, so the
// getters accept the shapes each of those produces.

// GetIntOption extracts an int option. Floats from JSON and numeric
// strings from the environment are accepted.
func GetIntOption(opts map[string]any, key string, defaultVal int) int {
	switch n := opts[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if v, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return v
		}
	}
	return defaultVal
}

// GetStringOption extracts a string option.
func GetStringOption(opts map[string]any, key string, defaultVal string) string {
	if s, ok := opts[key].(string); ok && s != "" {
		return s
	}
	return defaultVal
}

// GetStringSliceOption extracts a string slice option. A single string is
// split on commas.
func GetStringSliceOption(opts map[string]any, key string, defaultVal []string) []string {
	switch s := opts[key].(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	case string:
		var result []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
		return result
	}
	return defaultVal
}
