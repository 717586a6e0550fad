// Package normalize strips the footer noise that bank receipts and alert
// screenshots carry, so that promotional wording does not leak into keyword
// matching further down the pipeline.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var junkLine = regexp.MustCompile(
	`(?i)(enjoy a better life|get free transfers|withdrawals|bill payments|instant loans|annual interest|licensed by|central bank|insured by|\bndic\b)`,
)

// Normalize folds every Unicode space inside a line to ' ', trims every line,
// drops empty and boilerplate lines and joins the rest with "\n". Applying it
// twice gives the same result as applying it once.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(strings.Map(foldSpace, l))
		if l == "" || IsJunk(l) {
			continue
		}
		kept = append(kept, l)
	}

	return strings.Join(kept, "\n")
}

// foldSpace maps the spaces RE2's \s does not know, such as U+00A0, to ' '.
func foldSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

func IsJunk(line string) bool {
	return junkLine.MatchString(line)
}

// Lines returns the non-empty, trimmed lines of an already normalized text.
func Lines(text string) []string {
	if text == "" {
		return nil
	}

	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
