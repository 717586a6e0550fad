// Package alert turns the text of a bank alert into a ParsedTransaction.
//
// Parsing is a pure function of the text and the optional account holder name:
// the text is normalized, an amount is required, and the direction, bank and
// description are always filled in, with sentinel values when nothing better
// was found.
package alert

import (
	"context"
	"errors"
	"time"

	"github.com/zeebo/errs"

	"github.com/Philanthropists/income-alerts/internal/alert/alerttypes"
	"github.com/Philanthropists/income-alerts/internal/alert/amount"
	"github.com/Philanthropists/income-alerts/internal/alert/bankid"
	"github.com/Philanthropists/income-alerts/internal/alert/description"
	"github.com/Philanthropists/income-alerts/internal/alert/direction"
	"github.com/Philanthropists/income-alerts/internal/alert/normalize"
	"github.com/Philanthropists/income-alerts/internal/logging"
)

var Error = errs.Class("alert")

// ErrNoAmount is returned when no strictly positive amount could be found.
// Callers should offer manual entry.
var ErrNoAmount = errors.New("could not parse: no amount found")

// Parser is safe for concurrent use. The zero value parses with time.Now in
// UTC.
type Parser struct {
	Now      func() time.Time
	Location *time.Location
}

func NewParser(loc *time.Location) *Parser {
	return &Parser{
		Now:      time.Now,
		Location: loc,
	}
}

func (p *Parser) today() time.Time {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	loc := time.UTC
	if p.Location != nil {
		loc = p.Location
	}

	t := now().In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func (p *Parser) Parse(ctx context.Context, text, knownUserName string) (*alerttypes.ParsedTransaction, error) {
	log := logging.FromContext(ctx)

	normalized := normalize.Normalize(text)

	value, pattern, ok := amount.ExtractWithPattern(normalized)
	if !ok {
		log.Debug("no amount in alert", logging.Int("length", len(normalized)))
		return nil, Error.Wrap(ErrNoAmount)
	}

	decision := direction.Classify(normalized, knownUserName)

	bank, ok := bankid.Identify(normalized)
	if !ok {
		bank = alerttypes.UnknownBank
	}

	desc := description.Extract(normalized)
	if desc == "" {
		desc = decision.Type.DefaultDescription()
	}

	log.Debug("alert classified",
		logging.Decimal("amount", value),
		logging.String("amount_pattern", pattern),
		logging.Stringer("type", decision.Type),
		logging.String("stage", decision.Evidence.Stage),
		logging.String("section", decision.Evidence.Section),
		logging.String("evidence", decision.Evidence.Match),
		logging.String("bank", bank),
	)

	return &alerttypes.ParsedTransaction{
		Amount:      value,
		Type:        decision.Type,
		Description: desc,
		Bank:        bank,
		Date:        p.today(),
	}, nil
}

var defaultParser = &Parser{}

// Parse parses text with the default parser. It logs through the process
// logger.
func Parse(text, knownUserName string) (*alerttypes.ParsedTransaction, error) {
	return defaultParser.Parse(context.Background(), text, knownUserName)
}
