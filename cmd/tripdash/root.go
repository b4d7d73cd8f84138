package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	tripdashlog "github.com/davetashner/tripdash/internal/log"
)

// Global flag values.
var (
	verbose   bool
	quiet     bool
	noColor   bool
	logFormat string
	apiURL    string
	timeout   string
)

// rootCmd is the base command for tripdash.
var rootCmd = &cobra.Command{
	Use:   "tripdash",
	Short: "Explore NYC taxi trip aggregates from the terminal",
	Long: `Tripdash is a client for the urban mobility data explorer API. It applies
a set of trip filters to every aggregate endpoint at once and renders the
resulting dashboard: KPI cards, trips by hour, top pickup zones and routes,
a sortable trips table, and insights derived from the aggregates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if noColor {
			color.NoColor = true
		}
		if err := tripdashlog.Setup(verbose, quiet, logFormat); err != nil {
			return exitError(ExitInvalidArgs, "tripdash: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", tripdashlog.FormatText, "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "aggregate API base URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "", "per-request timeout, e.g. 10s (default: none)")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(tripsCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
