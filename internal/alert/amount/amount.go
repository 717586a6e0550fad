package amount

import (
	"strings"

	"github.com/shopspring/decimal"

	regexp_util "github.com/Philanthropists/income-alerts/internal/util/regexp"
)

const number = `(?P<value>\d[\d,]*(?:\.\d{2})?)`

// candidates are tried in order; only the first match of each one is looked at.
var candidates = []*regexp_util.Match[string]{
	regexp_util.New(`(?i)(?:\bNGN|\bN|₦)\s*`+number, "currency"),
	regexp_util.New(`(?i)\b(?:amount|amt|sum)[\s:]*(?:NGN|N|₦)?\s*`+number, "label"),
	regexp_util.New(`(?i)\b(?:debited|credited|received|sent|paid)[\s:]*(?:NGN|N|₦)?\s*`+number, "verb"),
	regexp_util.New(`(?i)`+number+`\s*(?:NGN|naira)\b`, "suffix"),
}

// Extract returns the first strictly positive amount found in text.
// When several amounts are present only the first match of the first
// pattern that yields a valid number is used.
func Extract(text string) (decimal.Decimal, bool) {
	v, _, ok := ExtractWithPattern(text)
	return v, ok
}

// ExtractWithPattern is Extract that also names the candidate that matched.
func ExtractWithPattern(text string) (decimal.Decimal, string, bool) {
	for _, c := range candidates {
		fields := regexp_util.ExtractFieldsWithMatch(text, c)
		raw, ok := fields["value"]
		if !ok {
			continue
		}

		if v, ok := parse(raw); ok {
			return v, c.Value, true
		}
	}

	return decimal.Zero, "", false
}

func parse(raw string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(raw, ",", "")
	if s == "" {
		return decimal.Zero, false
	}

	v, err := decimal.NewFromString(s)
	if err != nil || !v.IsPositive() {
		return decimal.Zero, false
	}

	return v, true
}
