package types

import (
	"encoding/json"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/zeebo/errs"
)

var ConfigError = errs.Class("config")

const (
	DefaultTimezone  = "Africa/Lagos"
	DefaultCurrency  = "NGN"
	DefaultAWSRegion = "us-east-1"
	DefaultDedupeTTL = 7 * 24 * time.Hour
)

type Config struct {
	Credentials
	ArchiveMailbox       string            `json:"archive_mailbox"`
	Timezone             string            `json:"timezone"`
	Currency             string            `json:"currency"`
	DefaultBankAlertName string            `json:"default_bank_alert_name"`
	AccountMappings      map[string]string `json:"account_mappings"`
	ExtraSenders         []string          `json:"extra_senders"`
	DedupeTTL            Duration          `json:"dedupe_ttl"`
	AWSRegion            string            `json:"aws_region"`
}

type Credentials struct {
	Email
	Toshl
	Twilio
}

type Email struct {
	Address  string `json:"mail-addr"`
	Username string `json:"mail-username"`
	Password string `json:"mail-password"`
}

type Toshl struct {
	Token string `json:"toshl-token"`
}

type Twilio struct {
	AccountSid string `json:"twilio-account-sid"`
	AuthToken  string `json:"twilio-auth-token"`
	FromNumber string `json:"twilio-from-number"`
	ToNumber   string `json:"twilio-to-number"`
}

// Duration reads "36h" style strings.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ConfigError.New("duration must be a string like \"24h\": %w", err)
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return ConfigError.Wrap(err)
	}

	*d = Duration(v)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (c *Config) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if c.AWSRegion == "" {
		c.AWSRegion = DefaultAWSRegion
	}
	if c.DedupeTTL <= 0 {
		c.DedupeTTL = Duration(DefaultDedupeTTL)
	}
}

// Validate checks what an import run needs.
func (c Config) Validate() error {
	var group errs.Group

	if c.Address == "" {
		group.Add(errs.New("mail-addr is required"))
	}
	if c.Username == "" {
		group.Add(errs.New("mail-username is required"))
	}
	if c.ArchiveMailbox == "" {
		group.Add(errs.New("archive_mailbox is required"))
	}
	if _, err := c.Location(); err != nil {
		group.Add(err)
	}

	return ConfigError.Wrap(group.Err())
}

func (c Config) Location() (*time.Location, error) {
	tz := c.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, ConfigError.New("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

func ParseConfig(raw []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(raw, &config); err != nil {
		return Config{}, ConfigError.Wrap(err)
	}

	config.applyDefaults()

	return config, nil
}

func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, ConfigError.Wrap(err)
	}

	return ParseConfig(raw)
}
