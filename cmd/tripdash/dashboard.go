// Copyright 2026 The Tripdash Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/davetashner/tripdash/internal/chart"
	"github.com/davetashner/tripdash/internal/filter"
	"github.com/davetashner/tripdash/internal/pipeline"
	"github.com/davetashner/tripdash/internal/session"
	"github.com/davetashner/tripdash/internal/tablesort"
)

// Dashboard-specific flag values.
var (
	dashFilters   filter.State
	dashFormat    string
	dashTopK      int
	dashLimit     int
	dashSort      string
	dashOrder     string
	dashHeatmap   string
	dashChartsDir string
)

// dashboardCmd fetches and renders one full dashboard.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render the full trip dashboard for a set of filters",
	Long: `Fetch the summary, trips by hour, top zones, top routes, a trips page and
the insights aggregates for one set of filters, and render them.

The summary is required: when it fails nothing is rendered and tripdash
exits 3. Any other view that fails is reported as unavailable, the rest
of the dashboard is still written, and tripdash exits 2.

Examples:
  tripdash dashboard --borough Manhattan --start-date 2024-01-01
  tripdash dashboard --min-fare 20 --format json
  tripdash dashboard --heatmap pickups --charts-dir ./charts`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	filter.BindFlags(dashboardCmd.Flags(), &dashFilters)
	dashboardCmd.Flags().StringVarP(&dashFormat, "format", "f", "", "output format (html, json, markdown, text)")
	dashboardCmd.Flags().IntVar(&dashTopK, "top-k", 0, "number of top zones and routes (default 10)")
	dashboardCmd.Flags().IntVar(&dashLimit, "limit", 0, "trips page size (default 50, max 500)")
	dashboardCmd.Flags().StringVar(&dashSort, "sort", "", "trips sort column (pickup_datetime, distance, fare, total, duration)")
	dashboardCmd.Flags().StringVar(&dashOrder, "order", "", "trips sort order (asc, desc)")
	dashboardCmd.Flags().StringVar(&dashHeatmap, "heatmap", "", "also fetch the zone heatmap (pickups, dropoffs)")
	dashboardCmd.Flags().StringVar(&dashChartsDir, "charts-dir", "", "write hourly.png and zones.png to this directory")
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	cli := cliConfig()
	cli.OutputFormat = dashFormat
	cli.TopK = dashTopK
	cli.TripsLimit = dashLimit
	cli.ChartsDir = dashChartsDir
	cli.Filters = filter.Changed(cmd.Flags(), dashFilters)

	settings, err := loadSettings(cli)
	if err != nil {
		return err
	}
	sortState, err := tablesort.Parse(dashSort, dashOrder)
	if err != nil {
		return exitError(ExitInvalidArgs, "tripdash: %v", err)
	}
	switch dashHeatmap {
	case "", "pickups", "dropoffs":
	default:
		return exitError(ExitInvalidArgs, "tripdash: --heatmap must be pickups or dropoffs (got %q)", dashHeatmap)
	}

	o := pipeline.New(newClient(settings), pipeline.Options{
		TopK:          settings.TopK,
		TripsLimit:    settings.TripsLimit,
		HeatmapMetric: dashHeatmap,
	})
	d, err := o.Refresh(cmd.Context(), pipeline.Snapshot{Filter: settings.Filters, Sort: sortState})
	if err != nil {
		slog.Error("dashboard unavailable", "error", err)
		return exitError(ExitTotalFailure, "tripdash: %v", err)
	}

	if settings.ChartsDir != "" {
		writeCharts(settings.ChartsDir, d)
	}
	return writeDashboard(cmd.OutOrStdout(), settings.OutputFormat, d)
}

// writeCharts saves the charts of the views that loaded. The files outlive
// the command, so the images are not closed.
func writeCharts(dir string, d *pipeline.Dashboard) {
	save := func(name string, ok bool, render func() ([]byte, error)) {
		if !ok {
			return
		}
		png, err := render()
		if err == nil {
			var img *chart.Image
			img, err = chart.NewImage(dir, name, png)
			if err == nil {
				slog.Info("chart written", "path", img.Path())
				return
			}
		}
		if errors.Is(err, chart.ErrNotEnoughData) {
			slog.Debug("chart skipped", "chart", name, "error", err)
			return
		}
		slog.Warn("chart not written", "chart", name, "error", err)
	}
	save(session.ChartHourly, d.Has(pipeline.TargetHourly), func() ([]byte, error) { return chart.Hourly(d.Hourly) })
	save(session.ChartZones, d.Has(pipeline.TargetZones), func() ([]byte, error) { return chart.TopZones(d.Zones) })
}
