package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Truncate returns s cut to maxLen runes, ending in "..." when shortened.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// Humanize turns a snake_case label such as "data_analysis" into "Data Analysis".
// A Caser is not safe for concurrent use, so each call builds its own.
func Humanize(label string) string {
	words := strings.Fields(strings.ReplaceAll(label, "_", " "))
	return cases.Title(language.English, cases.NoLower).String(strings.Join(words, " "))
}
