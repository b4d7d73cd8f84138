package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/davetashner/tripdash/internal/aggregate"
	"github.com/davetashner/tripdash/internal/filter"
	"github.com/davetashner/tripdash/internal/insight"
	"github.com/davetashner/tripdash/internal/pipeline"
	"github.com/davetashner/tripdash/internal/tablesort"
)

func init() {
	RegisterFormatter(NewJSONFormatter())
}

// JSONEnvelope wraps the dashboard views with metadata for the JSON output
// format. Views that failed or were not fetched are omitted and listed in
// Metadata.Unavailable.
type JSONEnvelope struct {
	KPIs     []KPI                      `json:"kpis,omitempty"`
	Summary  *aggregate.Summary         `json:"summary,omitempty"`
	Hourly   []aggregate.HourlyPoint    `json:"hourly,omitempty"`
	Zones    []aggregate.ZoneAggregate  `json:"top_zones,omitempty"`
	Routes   []aggregate.RouteAggregate `json:"top_routes,omitempty"`
	Trips    []aggregate.TripRecord     `json:"trips,omitempty"`
	Insights []insight.Record           `json:"insights,omitempty"`
	Heatmap  []aggregate.ZoneHeat       `json:"heatmap,omitempty"`
	Metadata JSONMetadata               `json:"metadata"`
}

// JSONMetadata describes the refresh that produced the dashboard.
type JSONMetadata struct {
	RequestID   string            `json:"request_id"`
	Scope       string            `json:"scope"`
	Filters     filter.State      `json:"filters"`
	Sort        tablesort.State   `json:"sort"`
	Unavailable map[string]string `json:"unavailable,omitempty"`
	DurationMS  int64             `json:"duration_ms"`
	GeneratedAt string            `json:"generated_at"`
}

// JSONFormatter writes the dashboard as a JSON object with a metadata
// envelope.
type JSONFormatter struct {
	// Compact controls whether output is compact (single line) or pretty-printed.
	// When false (default), output is indented with two spaces.
	Compact bool

	// nowFunc is used for testing to override the current time.
	nowFunc func() time.Time
}

// Compile-time interface check.
var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes d as a JSON document to w.
func (f *JSONFormatter) Format(d *pipeline.Dashboard, w io.Writer) error {
	if d == nil {
		return nil
	}
	env := f.Envelope(d)

	var data []byte
	var err error
	if f.shouldCompact(w) {
		data, err = json.Marshal(env)
	} else {
		data, err = json.MarshalIndent(env, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write json trailing newline: %w", err)
	}
	return nil
}

// Envelope builds the JSON document for d.
func (f *JSONFormatter) Envelope(d *pipeline.Dashboard) JSONEnvelope {
	now := time.Now()
	if f.nowFunc != nil {
		now = f.nowFunc()
	}

	env := JSONEnvelope{
		Metadata: JSONMetadata{
			RequestID:   d.RequestID,
			Scope:       string(d.Scope),
			Filters:     d.Snapshot.Filter,
			Sort:        d.Snapshot.Sort,
			DurationMS:  d.Duration.Milliseconds(),
			GeneratedAt: now.UTC().Format("2006-01-02T15:04:05Z"),
		},
	}
	if d.Summary != nil {
		env.Summary = d.Summary
		env.KPIs = KPIs(d.Summary)
	}
	if d.Has(pipeline.TargetHourly) {
		env.Hourly = d.Hourly
	}
	if d.Has(pipeline.TargetZones) {
		env.Zones = d.Zones
	}
	if d.Has(pipeline.TargetRoutes) {
		env.Routes = d.Routes
	}
	if d.Has(pipeline.TargetTrips) {
		env.Trips = d.Trips
	}
	if d.Has(pipeline.TargetInsights) {
		env.Insights = d.Insights
	}
	if d.Has(pipeline.TargetHeatmap) {
		env.Heatmap = d.Heatmap
	}
	for _, r := range d.Failed() {
		if env.Metadata.Unavailable == nil {
			env.Metadata.Unavailable = make(map[string]string)
		}
		env.Metadata.Unavailable[string(r.Target)] = r.Err.Error()
	}
	return env
}

// shouldCompact determines whether to use compact mode.
// If Compact is explicitly set, use that value.
// Otherwise, auto-detect: pretty-print for TTYs, compact for pipes.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}
	if file, ok := w.(*os.File); ok {
		fi, err := file.Stat()
		if err != nil {
			return false
		}
		return fi.Mode()&os.ModeCharDevice == 0
	}
	return false
}
