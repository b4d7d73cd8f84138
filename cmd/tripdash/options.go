package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/tripdash/internal/output"
)

var optionsJSON bool

// optionsCmd lists the values the filters accept.
var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List boroughs, payment types and the available date range",
	Args:  cobra.NoArgs,
	RunE:  runOptions,
}

func init() {
	optionsCmd.Flags().BoolVar(&optionsJSON, "json", false, "machine-readable output")
}

func runOptions(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cliConfig())
	if err != nil {
		return err
	}
	opts, err := newClient(settings).FilterOptions(cmd.Context())
	if err != nil {
		return exitError(ExitTotalFailure, "tripdash: filter options unavailable (%v)", err)
	}

	w := cmd.OutOrStdout()
	if optionsJSON {
		data, err := json.MarshalIndent(opts, "", "  ")
		if err != nil {
			return exitError(ExitTotalFailure, "tripdash: JSON marshal failed (%v)", err)
		}
		_, _ = fmt.Fprintln(w, string(data))
		return nil
	}

	bold := color.New(color.Bold)
	_, _ = fmt.Fprintf(w, "%s %s to %s\n", bold.Sprint("Dates:"), opts.MinDate, opts.MaxDate)
	_, _ = fmt.Fprintf(w, "%s %s\n", bold.Sprint("Boroughs:"), strings.Join(opts.Boroughs, ", "))
	_, _ = fmt.Fprintln(w, bold.Sprint("Payment types:"))
	tbl := output.NewTableFromHeaders([]string{"ID", "Label"}, 0)
	for _, p := range opts.PaymentTypes {
		tbl.AddRow(fmt.Sprint(p.ID), p.Label)
	}
	return tbl.Render(w)
}
