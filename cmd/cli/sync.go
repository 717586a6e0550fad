package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Philanthropists/income-alerts/internal/logging"
	"github.com/Philanthropists/income-alerts/internal/sync"
	"github.com/Philanthropists/income-alerts/internal/sync/types"
)

const credentialsFile = "credentials.json"

func newSyncCommand() *cobra.Command {
	var (
		execute    bool
		timeout    time.Duration
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import new bank alerts from the mailbox",
		Long: "Import new bank alerts from the mailbox. Without --execute nothing " +
			"is written to Toshl, the mailbox, DynamoDB or Twilio.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New()

			config, err := types.LoadConfig(configPath)
			if err != nil {
				log.Error("failed to get credentials", logging.Error(err))
				return err
			}

			ctx := context.WithValue(cmd.Context(), types.VersionCtxKey{}, version())
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			s := &sync.Sync{
				Config: config,
				DryRun: !execute,
			}

			summary, err := s.Run(log.GetContext(ctx))
			if err != nil {
				log.Error("failed to run sync", logging.Error(err))
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"run %s: total=%d processed=%d imported=%d skipped=%d errors=%d\n",
				summary.RunID,
				summary.Total,
				summary.Processed,
				summary.Imported,
				summary.Skipped,
				summary.Errors,
			)

			return nil
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "execute actual changes")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "timeout for sync to cancel")
	cmd.Flags().StringVar(&configPath, "config", credentialsFile, "path to the credentials file")

	return cmd
}
