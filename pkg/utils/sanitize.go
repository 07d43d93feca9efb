package utils

import (
	"html"
	"strings"
	"unicode"
)

// SanitizeString removes potentially dangerous characters and escapes HTML
func SanitizeString(input string) string {
	trimmed := strings.TrimSpace(input)

	escaped := html.EscapeString(trimmed)

	return escaped
}

// SanitizeName normalizes a device-supplied component name: trims
// whitespace and drops control characters. Names arrive from firmware
// and end up in topic payloads and the database.
func SanitizeName(input string) string {
	trimmed := strings.TrimSpace(input)

	var result strings.Builder
	for _, r := range trimmed {
		if unicode.IsPrint(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}
