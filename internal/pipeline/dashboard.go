package pipeline

import (
	"fmt"
	"time"

	"github.com/davetashner/tripdash/internal/aggregate"
	"github.com/davetashner/tripdash/internal/insight"
)

// Target names one independently rendered dashboard view.
type Target string

const (
	TargetHourly   Target = "hourly"
	TargetZones    Target = "zones"
	TargetRoutes   Target = "routes"
	TargetTrips    Target = "trips"
	TargetInsights Target = "insights"
	TargetHeatmap  Target = "heatmap"
)

var targetLabels = map[Target]string{
	TargetHourly:   "hourly chart",
	TargetZones:    "zones chart",
	TargetRoutes:   "routes table",
	TargetTrips:    "trips table",
	TargetInsights: "insights",
	TargetHeatmap:  "zone heatmap",
}

// Label returns the human-readable view name.
func (t Target) Label() string {
	if l, ok := targetLabels[t]; ok {
		return l
	}
	return string(t)
}

// Scope says which sub-pipeline produced a Dashboard.
type Scope string

const (
	// ScopeFull is a full refresh: summary plus every target.
	ScopeFull Scope = "full"
	// ScopeTrips is a trips-only refresh after a sort change.
	ScopeTrips Scope = "trips"
)

// TargetResult is the outcome of fetching one target.
type TargetResult struct {
	Target   Target
	Err      error
	Duration time.Duration
}

// Message describes a failed target for display, e.g.
// "zones chart data unavailable (HTTP 500 for ...)".
func (r TargetResult) Message() string {
	if r.Err == nil {
		return ""
	}
	return fmt.Sprintf("%s data unavailable (%v)", r.Target.Label(), r.Err)
}

// Dashboard is the outcome of one refresh cycle. Slices stay nil for
// targets that failed or were not part of the cycle.
type Dashboard struct {
	RequestID       string
	Scope           Scope
	Generation      uint64
	TripsGeneration uint64
	Snapshot        Snapshot
	Query           string

	Summary     *aggregate.Summary
	Hourly      []aggregate.HourlyPoint
	Zones       []aggregate.ZoneAggregate
	Routes      []aggregate.RouteAggregate
	Trips       []aggregate.TripRecord
	InsightsRaw *aggregate.InsightsRaw
	Insights    []insight.Record
	Heatmap     []aggregate.ZoneHeat

	Results  []TargetResult
	Duration time.Duration
}

// Result returns the result for t and whether t was part of the cycle.
func (d *Dashboard) Result(t Target) (TargetResult, bool) {
	for _, r := range d.Results {
		if r.Target == t {
			return r, true
		}
	}
	return TargetResult{}, false
}

// Has reports whether t was fetched successfully in this cycle.
func (d *Dashboard) Has(t Target) bool {
	r, ok := d.Result(t)
	return ok && r.Err == nil
}

// Err returns the failure recorded for t, or nil.
func (d *Dashboard) Err(t Target) error {
	r, _ := d.Result(t)
	return r.Err
}

// Failed returns the results of targets that failed.
func (d *Dashboard) Failed() []TargetResult {
	var out []TargetResult
	for _, r := range d.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
