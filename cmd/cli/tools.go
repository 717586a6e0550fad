package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Philanthropists/income-alerts/internal/services/userconfigserv"
	"github.com/Philanthropists/income-alerts/internal/sync"
	"github.com/Philanthropists/income-alerts/internal/sync/types"
)

// Setup helpers: each one talks to a single backend with the credentials file.

func newAccountsCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the Toshl accounts, for account_mappings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := types.LoadConfig(*configPath)
			if err != nil {
				return err
			}

			accounts, err := sync.NewAccountingService().GetAccounts(cmd.Context(), config.Token)
			if err != nil {
				return err
			}

			for _, a := range accounts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a.ID, a.Name)
			}
			return nil
		},
	}
}

func newMailboxesCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mailboxes",
		Short: "List the IMAP mailboxes, for archive_mailbox",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := types.LoadConfig(*configPath)
			if err != nil {
				return err
			}

			mail := sync.NewMailService(config)
			defer func() { _ = mail.Close() }()

			mailboxes, err := mail.GetAvailableMailboxes(cmd.Context())
			if err != nil {
				return err
			}

			for _, m := range mailboxes {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

func newSMSCommand(configPath *string) *cobra.Command {
	var to, msg string

	cmd := &cobra.Command{
		Use:   "sms",
		Short: "Send a test SMS through Twilio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := types.LoadConfig(*configPath)
			if err != nil {
				return err
			}

			if to == "" {
				to = config.ToNumber
			}

			fmt.Fprintf(cmd.OutOrStdout(), "sending from %s to %s: %s\n", config.FromNumber, to, msg)

			return sync.NewNotificationService(config).SendSMS(cmd.Context(), to, msg)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "number to send to, defaults to twilio-to-number")
	cmd.Flags().StringVar(&msg, "msg", "Test message", "message to send")

	return cmd
}

func newUserCommand(configPath *string) *cobra.Command {
	var (
		cfg      userconfigserv.UserConfig
		accounts []string
	)

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Store the settings of one account holder in DynamoDB",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := types.LoadConfig(*configPath)
			if err != nil {
				return err
			}

			cfg.Accounts, err = parseAccounts(accounts)
			if err != nil {
				return err
			}

			client, err := sync.NewDynamoDBClient(cmd.Context(), config.AWSRegion)
			if err != nil {
				return err
			}

			users := &userconfigserv.DynamoDBService{Client: client}
			return users.SaveUserConfig(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Email, "email", "", "address the alerts are sent to")
	cmd.Flags().StringVar(&cfg.SMSDeliveryNumber, "sms", "", "number that receives the run summary")
	cmd.Flags().StringVar(&cfg.BankAlertName, "name", "", "account holder name as printed on alerts")
	cmd.Flags().StringVar(&cfg.Toshl.Token, "toshl-token", "", "Toshl personal token")
	cmd.Flags().StringArrayVar(&accounts, "account", nil, "bank=toshl-account-id, repeatable")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func parseAccounts(pairs []string) (map[string]string, error) {
	accounts := make(map[string]string, len(pairs))
	for _, p := range pairs {
		bank, id, ok := strings.Cut(p, "=")
		bank, id = strings.TrimSpace(bank), strings.TrimSpace(id)
		if !ok || bank == "" || id == "" {
			return nil, types.ConfigError.New("invalid account mapping %q, expected bank=id", p)
		}
		accounts[bank] = id
	}
	return accounts, nil
}

func newToolsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Setup helpers for the import backends",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", credentialsFile, "path to the credentials file")
	cmd.AddCommand(
		newAccountsCommand(&configPath),
		newMailboxesCommand(&configPath),
		newSMSCommand(&configPath),
		newUserCommand(&configPath),
	)

	return cmd
}
