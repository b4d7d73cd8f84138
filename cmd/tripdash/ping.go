package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// pingCmd checks that the aggregate API is reachable.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the aggregate API is up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := loadSettings(cliConfig())
		if err != nil {
			return err
		}
		start := time.Now()
		h, err := newClient(settings).Health(cmd.Context())
		if err != nil {
			return exitError(ExitTotalFailure, "tripdash: %s unreachable (%v)", settings.APIURL, err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", settings.APIURL, h.Status, time.Since(start).Round(time.Millisecond))
		return nil
	},
}
