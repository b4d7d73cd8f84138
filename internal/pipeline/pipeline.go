// Package pipeline orchestrates the aggregate fetches behind one dashboard
// refresh and collects their per-target results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/davetashner/tripdash/internal/aggregate"
	"github.com/davetashner/tripdash/internal/api"
	"github.com/davetashner/tripdash/internal/filter"
	"github.com/davetashner/tripdash/internal/insight"
	"github.com/davetashner/tripdash/internal/tablesort"
)

// DefaultTopK is the number of zones and routes requested.
const DefaultTopK = 10

// ErrSummaryUnavailable aborts a full refresh: nothing can render without
// the summary.
var ErrSummaryUnavailable = errors.New("summary unavailable")

// Fetcher performs one aggregate GET and decodes the body into v.
// *api.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, path, query string, v any) error
}

// Compile-time check that the API client satisfies Fetcher.
var _ Fetcher = (*api.Client)(nil)

// Options tunes the requests of a refresh.
type Options struct {
	// TopK bounds the zones and routes lists (default 10).
	TopK int
	// TripsLimit is the trips page size (default 50).
	TripsLimit int
	// TripsOffset is the trips page offset (default 0).
	TripsOffset int
	// HeatmapMetric adds the zone heatmap target when set to "pickups" or
	// "dropoffs".
	HeatmapMetric string
}

// Snapshot is the immutable filter and sort configuration captured when a
// refresh starts.
type Snapshot struct {
	Filter filter.State
	Sort   tablesort.State
}

// Orchestrator issues the aggregate requests of full and trips-only
// refreshes. Each refresh takes a generation number so that callers can
// discard results overtaken by a newer refresh.
type Orchestrator struct {
	fetcher Fetcher
	opts    Options

	gen      atomic.Uint64 // bumped by full refreshes
	tripsGen atomic.Uint64 // bumped by every refresh that fetches trips

	newID func() string
}

// New creates an Orchestrator. Zero Options fields take their defaults.
func New(f Fetcher, opts Options) *Orchestrator {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.TripsLimit <= 0 {
		opts.TripsLimit = tablesort.DefaultLimit
	}
	return &Orchestrator{
		fetcher: f,
		opts:    opts,
		newID:   uuid.NewString,
	}
}

// Options returns the effective options.
func (o *Orchestrator) Options() Options { return o.opts }

// Refresh fetches the summary, then the hourly, zones, routes, trips and
// insights targets concurrently. A summary failure aborts the refresh and
// is returned once, wrapped in ErrSummaryUnavailable. A failure of any
// other target is recorded in its TargetResult and does not affect the
// rest.
func (o *Orchestrator) Refresh(ctx context.Context, snap Snapshot) (*Dashboard, error) {
	start := time.Now()
	d := o.begin(ScopeFull, snap)
	d.Generation = o.gen.Add(1)
	d.TripsGeneration = o.tripsGen.Add(1)
	ctx = api.WithRequestID(ctx, d.RequestID)

	var summary aggregate.Summary
	if err := o.fetcher.Fetch(ctx, api.PathSummary, d.Query, &summary); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSummaryUnavailable, err)
	}
	d.Summary = &summary

	targets := []Target{TargetHourly, TargetZones, TargetRoutes, TargetTrips, TargetInsights}
	if o.opts.HeatmapMetric != "" {
		targets = append(targets, TargetHeatmap)
	}
	d.Results = o.runTargets(ctx, d, targets)
	d.Duration = time.Since(start)

	slog.Info("refresh complete", "request_id", d.RequestID, "generation", d.Generation,
		"failed", len(d.Failed()), "duration", d.Duration.Round(time.Millisecond))
	return d, nil
}

// RefreshTrips fetches only the trips page for snap. It is the scoped
// re-fetch issued after a sort change. The trips failure, if any, is
// reported in the returned Dashboard's results. A context that is already
// done returns its error and issues no request.
func (o *Orchestrator) RefreshTrips(ctx context.Context, snap Snapshot) (*Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("trips refresh: %w", err)
	}
	start := time.Now()
	d := o.begin(ScopeTrips, snap)
	d.Generation = o.gen.Load()
	d.TripsGeneration = o.tripsGen.Add(1)
	ctx = api.WithRequestID(ctx, d.RequestID)

	d.Results = o.runTargets(ctx, d, []Target{TargetTrips})
	d.Duration = time.Since(start)

	slog.Debug("trips refresh complete", "request_id", d.RequestID, "generation", d.TripsGeneration,
		"sort", d.Snapshot.Sort.Column, "order", d.Snapshot.Sort.Direction)
	return d, nil
}

// Current reports whether d's full views and trips view are still the
// newest issued.
func (o *Orchestrator) Current(d *Dashboard) (full, trips bool) {
	full = d.Scope == ScopeFull && d.Generation == o.gen.Load()
	trips = d.TripsGeneration == o.tripsGen.Load()
	return full, trips
}

func (o *Orchestrator) begin(scope Scope, snap Snapshot) *Dashboard {
	return &Dashboard{
		RequestID: o.newID(),
		Scope:     scope,
		Snapshot:  snap,
		Query:     filter.Encode(snap.Filter),
	}
}

// runTargets fetches each target in its own goroutine. Every goroutine
// writes a distinct Dashboard field, and none returns an error to the
// group, so one failure never cancels the others.
func (o *Orchestrator) runTargets(ctx context.Context, d *Dashboard, targets []Target) []TargetResult {
	results := make([]TargetResult, len(targets))
	var g errgroup.Group
	for i, t := range targets {
		g.Go(func() error {
			start := time.Now()
			err := o.fetchTarget(ctx, t, d)
			results[i] = TargetResult{Target: t, Err: err, Duration: time.Since(start)}
			if err != nil {
				slog.Warn("target unavailable", "target", string(t), "kind", api.Kind(err),
					"error", err, "request_id", d.RequestID)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (o *Orchestrator) fetchTarget(ctx context.Context, t Target, d *Dashboard) error {
	q := d.Query
	switch t {
	case TargetHourly:
		return fetchInto(ctx, o.fetcher, api.PathHourlyTrips, q, &d.Hourly)
	case TargetZones:
		return fetchInto(ctx, o.fetcher, api.PathTopZones, o.topKQuery(q), &d.Zones)
	case TargetRoutes:
		return fetchInto(ctx, o.fetcher, api.PathTopRoutes, o.topKQuery(q), &d.Routes)
	case TargetTrips:
		return fetchInto(ctx, o.fetcher, api.PathTrips, o.tripsQuery(q, d.Snapshot.Sort), &d.Trips)
	case TargetInsights:
		var raw aggregate.InsightsRaw
		if err := o.fetcher.Fetch(ctx, api.PathInsights, q, &raw); err != nil {
			return err
		}
		d.InsightsRaw = &raw
		d.Insights = insight.Derive(d.Summary, &raw)
		return nil
	case TargetHeatmap:
		return fetchInto(ctx, o.fetcher, api.PathZoneHeatmap, AppendParam(q, "metric="+o.opts.HeatmapMetric), &d.Heatmap)
	default:
		return fmt.Errorf("unknown target %q", t)
	}
}

func (o *Orchestrator) topKQuery(q string) string {
	return AppendParam(q, "k="+strconv.Itoa(o.opts.TopK))
}

func (o *Orchestrator) tripsQuery(q string, s tablesort.State) string {
	return AppendParam(q, tablesort.Params(s, o.opts.TripsLimit, o.opts.TripsOffset))
}

// AppendParam joins extra parameters onto a filter-derived query string.
// The separator is "&" when query is non-empty; otherwise the result is
// param alone and the "?" is added when the URL is built.
func AppendParam(query, param string) string {
	if query == "" {
		return param
	}
	return query + "&" + param
}

// fetchInto decodes into a temporary and assigns dst only on success.
func fetchInto[T any](ctx context.Context, f Fetcher, path, query string, dst *T) error {
	var v T
	if err := f.Fetch(ctx, path, query, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}
