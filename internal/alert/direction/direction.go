// Package direction decides whether an alert moved money into (credit) or out
// of (debit) the account holder's account.
//
// The decision is an ordered cascade of stages. Each stage either answers or
// passes; the first answer wins and later stages are not consulted:
//
//	identity  the known user name appears in the Sender or Recipient section
//	receipt   transfer receipt whose recipient looks like an organization
//	critical  the words "debit" or "dr"
//	keyword   debit phrases such as "debited" or "payment to"
//	default   nothing matched, the alert is taken as income
package direction

import (
	"regexp"
	"strings"

	"github.com/Philanthropists/income-alerts/internal/alert/alerttypes"
)

const (
	StageIdentity = "identity"
	StageReceipt  = "receipt"
	StageCritical = "critical"
	StageKeyword  = "keyword"
	StageDefault  = "default"
)

// Evidence records why a stage answered. It only lives as long as the
// decision that carries it.
type Evidence struct {
	Stage   string
	Section string
	Match   string
}

type Decision struct {
	Type     alerttypes.TrxType
	Evidence Evidence
}

type input struct {
	text     string
	lower    string
	userName string
	sections sections
}

type stageFunc func(in *input) (alerttypes.TrxType, Evidence, bool)

type stage struct {
	Name string
	Fn   stageFunc
}

var stages = []stage{
	{Name: StageIdentity, Fn: identityStage},
	{Name: StageReceipt, Fn: receiptStage},
	{Name: StageCritical, Fn: criticalStage},
	{Name: StageKeyword, Fn: keywordStage},
}

// Classify runs the cascade over text. knownUserName may be empty.
func Classify(text, knownUserName string) Decision {
	in := &input{
		text:     text,
		lower:    strings.ToLower(text),
		userName: strings.TrimSpace(knownUserName),
		sections: findSections(text),
	}

	for _, s := range stages {
		if t, ev, ok := s.Fn(in); ok {
			ev.Stage = s.Name
			return Decision{Type: t, Evidence: ev}
		}
	}

	return Decision{
		Type:     alerttypes.Credit,
		Evidence: Evidence{Stage: StageDefault},
	}
}

func ClassifyDirection(text, knownUserName string) alerttypes.TrxType {
	return Classify(text, knownUserName).Type
}

var sectionLabel = regexp.MustCompile(
	`(?i)\b(?:(sender)|(recipient))\s+details\b|\btransaction\s+no\b`,
)

// sections holds the text found after each "... Details" label, up to the next
// label or the end of the text.
type sections struct {
	sender       []string
	recipient    []string
	hasSender    bool
	hasRecipient bool
}

func findSections(text string) sections {
	var s sections

	locs := sectionLabel.FindAllStringSubmatchIndex(text, -1)
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := text[loc[1]:end]

		switch {
		case loc[2] >= 0:
			s.hasSender = true
			s.sender = append(s.sender, body)
		case loc[4] >= 0:
			s.hasRecipient = true
			s.recipient = append(s.recipient, body)
		}
	}

	return s
}

func identityStage(in *input) (alerttypes.TrxType, Evidence, bool) {
	if in.userName == "" {
		return 0, Evidence{}, false
	}
	if !in.sections.hasSender && !in.sections.hasRecipient {
		return 0, Evidence{}, false
	}

	name := namePattern(in.userName)
	if name == nil {
		return 0, Evidence{}, false
	}

	for _, body := range in.sections.sender {
		if m := name.FindString(body); m != "" {
			return alerttypes.Debit, Evidence{Section: "sender", Match: m}, true
		}
	}

	for _, body := range in.sections.recipient {
		if m := name.FindString(body); m != "" {
			return alerttypes.Credit, Evidence{Section: "recipient", Match: m}, true
		}
	}

	return 0, Evidence{}, false
}

// namePattern builds a case-insensitive literal matcher for a user supplied
// name. Every word is escaped and the gaps between words accept any run of
// whitespace, since OCR often breaks names across lines.
func namePattern(name string) *regexp.Regexp {
	words := strings.Fields(name)
	if len(words) == 0 {
		return nil
	}

	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, regexp.QuoteMeta(w))
	}

	expr := strings.Join(quoted, `\s+`)
	if isASCIIWordByte(name[0]) {
		expr = `\b` + expr
	}
	if isASCIIWordByte(name[len(name)-1]) {
		expr = expr + `\b`
	}

	r, err := regexp.Compile(`(?i)` + expr)
	if err != nil {
		return nil
	}
	return r
}

func isASCIIWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

var (
	recipientName   = regexp.MustCompile(`^[\s:\-]*([A-Z][A-Za-z ]*)`)
	businessKeyword = regexp.MustCompile(
		`(?i)\b(ltd|limited|intl|international|partnership|company|enterprise|ventures|group|inc|corporation|church|ministry|foundation|ngo|association)\b`,
	)
	allCapsName = regexp.MustCompile(`^[A-Z ]+$`)
)

const (
	minRecipientNameLen = 6
	minAllCapsNameLen   = 10
	minAllCapsNameWords = 3
)

func receiptStage(in *input) (alerttypes.TrxType, Evidence, bool) {
	if !in.sections.hasSender || !in.sections.hasRecipient {
		return 0, Evidence{}, false
	}

	name := RecipientName(in.sections.recipient[0])
	if name == "" {
		return 0, Evidence{}, false
	}

	if m := businessKeyword.FindString(name); m != "" {
		return alerttypes.Debit, Evidence{Section: "recipient", Match: name}, true
	}

	if LooksLikeOrganization(name) {
		return alerttypes.Debit, Evidence{Section: "recipient", Match: name}, true
	}

	return 0, Evidence{}, false
}

// currencyWords end a recipient name on single-line receipts, where the amount
// follows the name on the same line.
var currencyWords = map[string]struct{}{
	"NGN":   {},
	"N":     {},
	"NAIRA": {},
}

// RecipientName returns the capitalized run of letters and spaces that opens
// a Recipient Details section, up to the first currency word, or "" when it is
// shorter than six characters.
func RecipientName(section string) string {
	m := recipientName.FindStringSubmatch(section)
	if m == nil {
		return ""
	}

	words := strings.Fields(m[1])
	for i, w := range words {
		if _, ok := currencyWords[strings.ToUpper(w)]; ok {
			words = words[:i]
			break
		}
	}

	name := strings.Join(words, " ")
	if len(name) < minRecipientNameLen {
		return ""
	}
	return name
}

// LooksLikeOrganization reports whether an all-caps name is long and has
// enough words that it is unlikely to be a person's two word name.
func LooksLikeOrganization(name string) bool {
	return allCapsName.MatchString(name) &&
		len(name) >= minAllCapsNameLen &&
		len(strings.Fields(name)) >= minAllCapsNameWords
}

var criticalKeyword = regexp.MustCompile(`(?i)\b(?:debit|dr)\b`)

func criticalStage(in *input) (alerttypes.TrxType, Evidence, bool) {
	if m := criticalKeyword.FindString(in.text); m != "" {
		return alerttypes.Debit, Evidence{Match: m}, true
	}
	return 0, Evidence{}, false
}

var debitKeywords = []string{
	"debited",
	"withdrawal",
	"withdraw",
	"transferred",
	"transfer from your",
	"payment to",
	"paid to",
	"sent to",
	"deducted",
	"charged",
}

func keywordStage(in *input) (alerttypes.TrxType, Evidence, bool) {
	for _, k := range debitKeywords {
		if strings.Contains(in.lower, k) {
			return alerttypes.Debit, Evidence{Match: k}, true
		}
	}
	return 0, Evidence{}, false
}
