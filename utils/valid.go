// utils/valid.go
package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var scriptRegex = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)

// SanitizeInput cleans free text (adjustment reasons, notes, remarks) before
// it is stored and echoed back to the admin UI.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	// Strip script blocks before escaping so the tags are still recognisable.
	input = scriptRegex.ReplaceAllString(input, "")
	input = html.EscapeString(input)

	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return input
}
