package userconfigserv

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/patrickmn/go-cache"
	"github.com/zeebo/errs"

	"github.com/Philanthropists/income-alerts/internal/logging"
)

const (
	table = "income-alerts-users"

	cacheExpiration = 5 * time.Minute
	cacheCleanup    = 1 * time.Minute
)

var ErrNotFound = errors.New("user config not found")

type ToshlConfig struct {
	Token string `json:"token" dynamodbav:"Token"`
}

// UserConfig is one account holder. BankAlertName is the name as the banks
// print it on alerts; it decides direction on transfer receipts.
type UserConfig struct {
	Email             string            `json:"email"               dynamodbav:"Email"`
	SMSDeliveryNumber string            `json:"sms_delivery_number" dynamodbav:"SMSDeliveryNumber"`
	BankAlertName     string            `json:"bank_alert_name"     dynamodbav:"BankAlertName"`
	Toshl             ToshlConfig       `json:"toshl"               dynamodbav:"Toshl"`
	Accounts          map[string]string `json:"accounts"            dynamodbav:"Accounts"`
}

// AccountFor returns the Toshl account id configured for bank.
func (c UserConfig) AccountFor(bank string) (string, bool) {
	id, ok := c.Accounts[bank]
	return id, ok && id != ""
}

type dynamoClient interface {
	Scan(
		context.Context,
		*dynamodb.ScanInput,
		...func(*dynamodb.Options),
	) (*dynamodb.ScanOutput, error)

	GetItem(
		context.Context,
		*dynamodb.GetItemInput,
		...func(*dynamodb.Options),
	) (*dynamodb.GetItemOutput, error)

	PutItem(
		context.Context,
		*dynamodb.PutItemInput,
		...func(*dynamodb.Options),
	) (*dynamodb.PutItemOutput, error)
}

type inMemoryCache interface {
	Set(k string, v any, t time.Duration)
	Get(k string) (any, bool)
	Delete(k string)
}

type DynamoDBService struct {
	Client dynamoClient

	once  sync.Once
	cache inMemoryCache
}

func cacheKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *DynamoDBService) init(ctx context.Context) {
	r.once.Do(func() {
		r.cache = cache.New(cacheExpiration, cacheCleanup)

		if err := r.PreloadAllConfigs(ctx); err != nil {
			logging.FromContext(ctx).Warn("could not preload user configs", logging.Error(err))
		}
	})
}

// PreloadAllConfigs scans the whole table into the cache. Entries live until
// the context deadline, or for the default expiration without one.
func (r *DynamoDBService) PreloadAllConfigs(ctx context.Context) error {
	scanIn := &dynamodb.ScanInput{
		TableName: aws.String(table),
	}

	items := []map[string]types.AttributeValue{}
	for {
		out, err := r.Client.Scan(ctx, scanIn)
		if err != nil {
			return errs.Wrap(err)
		}

		items = append(items, out.Items...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}

		scanIn.ExclusiveStartKey = out.LastEvaluatedKey
	}

	expTime := cacheExpiration
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		expTime = time.Until(deadline)
	}

	for _, it := range items {
		var cfg UserConfig
		err := attributevalue.UnmarshalMap(it, &cfg)
		if err != nil {
			return errs.Wrap(err)
		}

		r.cache.Set(cacheKey(cfg.Email), cfg, expTime)
	}

	return nil
}

func (r *DynamoDBService) GetUserConfigFromEmail(
	ctx context.Context,
	email string,
) (UserConfig, error) {
	r.init(ctx)

	k := cacheKey(email)
	if val, found := r.cache.Get(k); found {
		return val.(UserConfig), nil
	}

	key, err := attributevalue.MarshalMap(map[string]any{
		"Email": email,
	})
	if err != nil {
		return UserConfig{}, errs.Wrap(err)
	}

	res, err := r.Client.GetItem(ctx, &dynamodb.GetItemInput{
		Key:       key,
		TableName: aws.String(table),
	})
	if err != nil {
		return UserConfig{}, errs.Wrap(err)
	}

	if len(res.Item) == 0 {
		return UserConfig{}, ErrNotFound
	}

	var cfg UserConfig
	if err := attributevalue.UnmarshalMap(res.Item, &cfg); err != nil {
		return UserConfig{}, errs.Wrap(err)
	}

	r.cache.Set(k, cfg, cacheExpiration)

	return cfg, nil
}

// FindUserConfig returns the config of the first candidate e-mail that has
// one. Alert e-mails carry several addresses in To and Cc.
func (r *DynamoDBService) FindUserConfig(ctx context.Context, candidates []string) (UserConfig, error) {
	for _, c := range candidates {
		cfg, err := r.GetUserConfigFromEmail(ctx, c)
		if err == nil {
			return cfg, nil
		}

		if ctx.Err() != nil {
			return UserConfig{}, ctx.Err()
		}
		if !errors.Is(err, ErrNotFound) {
			return UserConfig{}, err
		}
	}

	return UserConfig{}, ErrNotFound
}

func (r *DynamoDBService) SaveUserConfig(ctx context.Context, cfg UserConfig) error {
	r.init(ctx)

	it, err := attributevalue.MarshalMap(cfg)
	if err != nil {
		return errs.Wrap(err)
	}

	_, err = r.Client.PutItem(ctx, &dynamodb.PutItemInput{
		Item:      it,
		TableName: aws.String(table),
	})
	if err != nil {
		return errs.Wrap(err)
	}

	r.cache.Set(cacheKey(cfg.Email), cfg, cacheExpiration)

	return nil
}
