package description

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Philanthropists/income-alerts/internal/alert/normalize"
)

// MaxFallbackLen is the number of characters kept from the first line when no
// narration could be captured.
const MaxFallbackLen = 100

var (
	labelled = regexp.MustCompile(
		`(?i)\b(?:desc|description|narration|details|remark)\s*:\s*([^\n;|]+?)\s*(?:\.(?:\s|$)|[;|\n]|$)`,
	)
	fromTo = regexp.MustCompile(`(?i)\bfrom\s+([^\n]+?)\s+to\b`)
)

// Extract returns the narration of an alert. It prefers an explicit label,
// then a "from X to" phrase, and finally the first line of text cut to
// MaxFallbackLen characters. Only empty input gives an empty result.
func Extract(text string) string {
	for _, m := range labelled.FindAllStringSubmatch(text, -1) {
		if d := strings.TrimSpace(m[1]); d != "" {
			return d
		}
	}

	if m := fromTo.FindStringSubmatch(text); m != nil {
		if d := strings.TrimSpace(m[1]); d != "" {
			return d
		}
	}

	return fallback(text)
}

func fallback(text string) string {
	lines := normalize.Lines(text)
	if len(lines) == 0 {
		return ""
	}
	return truncate(lines[0], MaxFallbackLen)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	r := []rune(s)
	return string(r[:n])
}
