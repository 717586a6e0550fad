// Package sender recognizes the SMS sender ids and e-mail addresses that bank
// alerts come from.
package sender

import (
	"strings"
)

// DefaultIDs are the sender ids observed on Nigerian bank and wallet alerts.
var DefaultIDs = []string{
	"GTBank",
	"AccessBank",
	"ZenithBank",
	"FirstBank",
	"UBA",
	"StanbicIBTC",
	"Kuda",
	"KudaBank",
	"OPay",
	"Moniepoint",
	"PalmPay",
}

type AllowList struct {
	ids []string
}

// NewAllowList builds a list from DefaultIDs plus extra ids. Ids are compared
// after Canonical, so "First Bank" and "FIRSTBANK" are the same entry.
func NewAllowList(extra ...string) *AllowList {
	seen := make(map[string]struct{})
	l := &AllowList{}
	for _, id := range append(append([]string{}, DefaultIDs...), extra...) {
		c := Canonical(id)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		l.ids = append(l.ids, c)
	}
	return l
}

// Allows reports whether any known id is contained in the canonical form of
// sender. "alerts@gtbank.com" is allowed because it contains GTBANK.
func (l *AllowList) Allows(sender string) bool {
	s := Canonical(sender)
	if s == "" {
		return false
	}

	for _, id := range l.ids {
		if strings.Contains(s, id) {
			return true
		}
	}
	return false
}

func (l *AllowList) AllowsAny(senders []string) bool {
	for _, s := range senders {
		if l.Allows(s) {
			return true
		}
	}
	return false
}

// Canonical upper-cases s and drops everything outside [A-Z0-9].
func Canonical(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var defaultList = NewAllowList()

func IsBankSender(sender string) bool {
	return defaultList.Allows(sender)
}

func FromAny(senders []string) bool {
	return defaultList.AllowsAny(senders)
}
