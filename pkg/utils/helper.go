package utils

import (
	"strconv"
	"strings"
)

// ParseOptionalFloat returns nil for an empty or malformed value.
func ParseOptionalFloat(value string) *float64 {
	if value == "" {
		return nil
	}

	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}

	return &result
}

// SplitCSV splits a comma separated query value, dropping blanks.
func SplitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
