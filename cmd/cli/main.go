package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Philanthropists/income-alerts/internal/logging"
)

// GitCommit is set through -ldflags at build time.
var GitCommit string

func version() string {
	if GitCommit == "" {
		return "dev"
	}
	return GitCommit
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "income-alerts",
		Short:   "Parse bank alerts and import the income into Toshl",
		Version: version(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newParseCommand(),
		newSyncCommand(),
		newServeCommand(),
		newToolsCommand(),
	)

	return rootCmd
}

func main() {
	log := logging.New()
	defer func() { _ = log.Sync() }()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
