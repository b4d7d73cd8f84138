package main

import (
	"github.com/spf13/cobra"

	"github.com/davetashner/tripdash/internal/filter"
	"github.com/davetashner/tripdash/internal/pipeline"
	"github.com/davetashner/tripdash/internal/tablesort"
)

// Trips-specific flag values.
var (
	tripsFilters filter.State
	tripsFormat  string
	tripsLimit   int
	tripsOffset  int
	tripsSort    string
	tripsOrder   string
)

// tripsCmd fetches one sorted page of individual trips.
var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List one sorted page of trips",
	Long: `Fetch one page of individual trips matching the filters, sorted by one
column. Only the trips endpoint is queried.

Examples:
  tripdash trips --sort fare --order asc
  tripdash trips --borough Brooklyn --limit 100 --offset 100`,
	Args: cobra.NoArgs,
	RunE: runTrips,
}

func init() {
	filter.BindFlags(tripsCmd.Flags(), &tripsFilters)
	tripsCmd.Flags().StringVarP(&tripsFormat, "format", "f", "", "output format (html, json, markdown, text)")
	tripsCmd.Flags().IntVar(&tripsLimit, "limit", 0, "page size (default 50, max 500)")
	tripsCmd.Flags().IntVar(&tripsOffset, "offset", 0, "page offset")
	tripsCmd.Flags().StringVar(&tripsSort, "sort", "", "sort column (pickup_datetime, distance, fare, total, duration)")
	tripsCmd.Flags().StringVar(&tripsOrder, "order", "", "sort order (asc, desc)")
}

func runTrips(cmd *cobra.Command, _ []string) error {
	cli := cliConfig()
	cli.OutputFormat = tripsFormat
	cli.TripsLimit = tripsLimit
	cli.Filters = filter.Changed(cmd.Flags(), tripsFilters)

	settings, err := loadSettings(cli)
	if err != nil {
		return err
	}
	sortState, err := tablesort.Parse(tripsSort, tripsOrder)
	if err != nil {
		return exitError(ExitInvalidArgs, "tripdash: %v", err)
	}
	if tripsOffset < 0 {
		return exitError(ExitInvalidArgs, "tripdash: --offset must be non-negative (got %d)", tripsOffset)
	}

	o := pipeline.New(newClient(settings), pipeline.Options{
		TripsLimit:  settings.TripsLimit,
		TripsOffset: tripsOffset,
	})
	d, err := o.RefreshTrips(cmd.Context(), pipeline.Snapshot{Filter: settings.Filters, Sort: sortState})
	if err != nil {
		return exitError(ExitTotalFailure, "tripdash: %v", err)
	}
	if err := d.Err(pipeline.TargetTrips); err != nil {
		return exitError(ExitTotalFailure, "tripdash: %s", d.Failed()[0].Message())
	}
	return writeDashboard(cmd.OutOrStdout(), settings.OutputFormat, d)
}
