// Package strutil converts query string values.
package strutil

import (
	"strconv"
	"strings"
)

// ConvertToInt parses s and returns fallback when it is not an integer.
func ConvertToInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}
