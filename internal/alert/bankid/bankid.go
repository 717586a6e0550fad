package bankid

import (
	regexp_util "github.com/Philanthropists/income-alerts/internal/util/regexp"
)

// banks is ordered: when an alert names more than one institution (interbank
// transfers do), the entry declared first wins.
var banks = []*regexp_util.Match[string]{
	regexp_util.New(`(?i)gt\s*bank|guaranty trust|\bgtb\b`, "GTBank"),
	regexp_util.New(`(?i)access\s*bank`, "Access Bank"),
	regexp_util.New(`(?i)first\s*bank|\bfbn\b`, "First Bank"),
	regexp_util.New(`(?i)\buba\b|united bank for africa`, "UBA"),
	regexp_util.New(`(?i)zenith\s*bank`, "Zenith Bank"),
	regexp_util.New(`(?i)ecobank`, "Ecobank"),
	regexp_util.New(`(?i)stanbic|\bibtc\b`, "Stanbic IBTC"),
	regexp_util.New(`(?i)fidelity\s*bank`, "Fidelity Bank"),
	regexp_util.New(`(?i)union\s*bank`, "Union Bank"),
	regexp_util.New(`(?i)sterling\s*bank`, "Sterling Bank"),
	regexp_util.New(`(?i)polaris\s*bank`, "Polaris Bank"),
	regexp_util.New(`(?i)wema\s*bank`, "Wema Bank"),
	regexp_util.New(`(?i)keystone\s*bank`, "Keystone Bank"),
	regexp_util.New(`(?i)\bfcmb\b|first city monument`, "FCMB"),
	regexp_util.New(`(?i)\bopay\b|owealth`, "Opay"),
	regexp_util.New(`(?i)kuda\s*bank|\bkuda\b`, "Kuda"),
	regexp_util.New(`(?i)palmpay`, "PalmPay"),
	regexp_util.New(`(?i)moniepoint`, "Moniepoint"),
}

// Identify returns the canonical name of the first bank in table order whose
// pattern matches text.
func Identify(text string) (string, bool) {
	m, ok := regexp_util.MatchesAnyRegexp(banks, text)
	if !ok {
		return "", false
	}
	return m.Value, true
}

// Names lists the canonical bank names in precedence order.
func Names() []string {
	names := make([]string, 0, len(banks))
	for _, b := range banks {
		names = append(names, b.Value)
	}
	return names
}
