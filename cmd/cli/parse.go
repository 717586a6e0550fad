package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Philanthropists/income-alerts/internal/alert"
	"github.com/Philanthropists/income-alerts/internal/sync/types"
)

func newParseCommand() *cobra.Command {
	var (
		name     string
		asJSON   bool
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "parse [alert text]",
		Short: "Parse one alert given as arguments or on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(raw)
			}

			loc, err := types.Config{Timezone: timezone}.Location()
			if err != nil {
				return err
			}

			trx, err := alert.NewParser(loc).Parse(cmd.Context(), text, name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(trx)
			}

			fmt.Fprintf(out, "type:        %s\n", trx.Type)
			fmt.Fprintf(out, "amount:      %s\n", trx.Amount.StringFixed(2))
			fmt.Fprintf(out, "bank:        %s\n", trx.Bank)
			fmt.Fprintf(out, "description: %s\n", trx.Description)
			fmt.Fprintf(out, "date:        %s\n", trx.Date.Format(time.DateOnly))

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account holder name as printed on alerts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the transaction as JSON")
	cmd.Flags().StringVar(&timezone, "timezone", types.DefaultTimezone, "IANA time zone used for the transaction date")

	return cmd
}
