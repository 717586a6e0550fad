package sync

import (
	"context"
	"errors"

	"github.com/Philanthropists/income-alerts/internal/alert/alerttypes"
	"github.com/Philanthropists/income-alerts/internal/logging"
	"github.com/Philanthropists/income-alerts/internal/services/mailserv/mailservtypes"
	"github.com/Philanthropists/income-alerts/internal/services/userconfigserv"
	"github.com/Philanthropists/income-alerts/internal/types"
	"github.com/Philanthropists/income-alerts/pkg/pipe"
)

// outcome is one bank message after parsing, together with the account holder
// it belongs to.
type outcome struct {
	Msg mailservtypes.Message
	Cfg userconfigserv.UserConfig
	Trx *alerttypes.ParsedTransaction
	Err error
}

func (s *Sync) parseMessages(ctx context.Context, msgs []mailservtypes.Message) []outcome {
	done := ctx.Done()

	in := pipe.Generate(done, msgs...)
	out := pipe.ConcurrentMap(done, s.goroutines(), in, func(m mailservtypes.Message) pipe.Result[outcome] {
		return pipe.Result[outcome]{Value: s.parseMessage(ctx, m)}
	})

	results := pipe.Collect(done, out)

	outcomes := make([]outcome, 0, len(results))
	for _, r := range results {
		outcomes = append(outcomes, r.Value)
	}

	return outcomes
}

func (s *Sync) parseMessage(ctx context.Context, m mailservtypes.Message) outcome {
	log := logging.FromContext(ctx).With(logging.Uint("uid", m.UID))

	cfg := s.userConfigFor(ctx, m)

	trx, err := s.deps.Parser.Parse(log.GetContext(ctx), m.Text(), cfg.BankAlertName)
	if err != nil {
		return outcome{
			Msg: m,
			Cfg: cfg,
			Err: types.ErrParseFailure{Cause: err, Value: m.UID},
		}
	}

	if d := m.Date(); !d.IsZero() {
		loc := s.deps.TimeLocale
		if loc == nil {
			loc = trx.Date.Location()
		}
		trx.Date = d.In(loc)
	}

	return outcome{Msg: m, Cfg: cfg, Trx: trx}
}

// userConfigFor looks the recipient up and fills what is missing from the
// process configuration.
func (s *Sync) userConfigFor(ctx context.Context, m mailservtypes.Message) userconfigserv.UserConfig {
	log := logging.FromContext(ctx)

	cfg, err := s.deps.UserCfgRepo.FindUserConfig(ctx, m.To())
	if err != nil && !errors.Is(err, userconfigserv.ErrNotFound) {
		log.Warn("could not get user config", logging.Error(err))
	}

	if cfg.BankAlertName == "" {
		cfg.BankAlertName = s.Config.DefaultBankAlertName
	}
	if cfg.Toshl.Token == "" {
		cfg.Toshl.Token = s.Config.Token
	}
	if cfg.SMSDeliveryNumber == "" {
		cfg.SMSDeliveryNumber = s.Config.ToNumber
	}
	if len(cfg.Accounts) == 0 {
		cfg.Accounts = s.Config.AccountMappings
	}

	return cfg
}
