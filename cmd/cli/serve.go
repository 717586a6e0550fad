package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Philanthropists/income-alerts/internal/alert"
	"github.com/Philanthropists/income-alerts/internal/api"
	"github.com/Philanthropists/income-alerts/internal/logging"
	"github.com/Philanthropists/income-alerts/internal/sync/types"
)

func newServeCommand() *cobra.Command {
	var (
		addr     string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parse API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New().With(logging.String("addr", addr))

			loc, err := types.Config{Timezone: timezone}.Location()
			if err != nil {
				return err
			}

			app := api.NewApp(&api.Handler{
				Parser:  alert.NewParser(loc),
				Version: version(),
				Logger:  log,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				<-ctx.Done()
				if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
					log.Warn("could not shut down cleanly", logging.Error(err))
				}
			}()

			log.Info("listening")
			return app.Listen(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&timezone, "timezone", types.DefaultTimezone, "IANA time zone used for transaction dates")

	return cmd
}
