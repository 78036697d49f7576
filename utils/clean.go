package utils

import (
	"regexp"
	"strings"
)

var unsafeNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

// CleanFileName replaces characters that are not allowed in file names.
func CleanFileName(input string) string {
	cleaned := unsafeNameChars.ReplaceAllString(input, "_")

	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.Trim(cleaned, ".")

	if cleaned == "" {
		return "chapters"
	}
	return cleaned
}
