package sync

import (
	"context"
	"io"
	"time"

	"github.com/Philanthropists/toshl-go"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/emersion/go-imap/client"
	"github.com/zeebo/errs"

	"github.com/Philanthropists/income-alerts/internal/alert"
	"github.com/Philanthropists/income-alerts/internal/alert/sender"
	"github.com/Philanthropists/income-alerts/internal/external/twilio"
	"github.com/Philanthropists/income-alerts/internal/logging"
	"github.com/Philanthropists/income-alerts/internal/services/accountingserv"
	"github.com/Philanthropists/income-alerts/internal/services/accountingserv/proxy"
	"github.com/Philanthropists/income-alerts/internal/services/dateprocessingserv"
	"github.com/Philanthropists/income-alerts/internal/services/mailserv"
	"github.com/Philanthropists/income-alerts/internal/services/notificationserv"
	"github.com/Philanthropists/income-alerts/internal/services/userconfigserv"
	"github.com/Philanthropists/income-alerts/internal/sync/types"
)

func (s *Sync) configure(ctx context.Context) error {
	s.configOnce.Do(func() {
		if s.Deps != nil {
			s.deps = s.Deps
			return
		}

		if err := s.Config.Validate(); err != nil {
			s.configErr = err
			return
		}

		s.deps, s.configErr = getDependencies(ctx, s.Config)
	})

	return s.configErr
}

// close releases the connections opened by the dependencies built from Config.
func (s *Sync) close(ctx context.Context) {
	if s.Deps != nil {
		return
	}

	if c, ok := s.deps.MailRepo.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logging.FromContext(ctx).Warn("could not close mail connections", logging.Error(err))
		}
	}
}

func getDependencies(ctx context.Context, cfg types.Config) (*Dependencies, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dynamoClient, err := NewDynamoDBClient(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		TimeLocale: loc,
		DateRepo: dateprocessingserv.DynamoDBService{
			Client: dynamoClient,
		},
		MailRepo: NewMailService(cfg),
		UserCfgRepo: &userconfigserv.DynamoDBService{
			Client: dynamoClient,
		},
		AccountingRepo:   NewAccountingService(),
		NotificationServ: NewNotificationService(cfg),
		Parser:           alert.NewParser(loc),
		Senders:          sender.NewAllowList(cfg.ExtraSenders...),
		Deduper:          NewDeduper(time.Duration(cfg.DedupeTTL)),
	}, nil
}

// NewMailService dials a new authenticated IMAP connection whenever the
// service needs one.
func NewMailService(cfg types.Config) *mailserv.IMAPService {
	addr, user, pass := cfg.Address, cfg.Username, cfg.Password

	return &mailserv.IMAPService{
		NewImapFunc: func() (mailserv.IMAPClient, error) {
			cl, err := getEmailClient(addr, user, pass)
			if err != nil {
				return nil, err
			}
			return cl, nil
		},
	}
}

func NewAccountingService() *accountingserv.ToshlService {
	return &accountingserv.ToshlService{
		ClientBuilder: func(token string) accountingserv.ToshlClient {
			return &proxy.ToshlCacheClient{
				Client: toshl.NewClient(token, nil),
			}
		},
	}
}

func NewNotificationService(cfg types.Config) *notificationserv.NotificationService {
	return &notificationserv.NotificationService{
		SMSClient: &twilio.Client{
			AccountSid: cfg.AccountSid,
			Token:      cfg.AuthToken,
			FromNumber: cfg.FromNumber,
		},
	}
}

func NewDynamoDBClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	if region == "" {
		region = types.DefaultAWSRegion
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errs.Wrap(err)
	}

	return dynamodb.NewFromConfig(cfg), nil
}

func getEmailClient(addr, username, password string) (*client.Client, error) {
	emailClient, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	if err := emailClient.Login(username, password); err != nil {
		_ = emailClient.Logout()
		return nil, errs.Wrap(err)
	}

	return emailClient, nil
}
