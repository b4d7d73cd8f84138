package session

import (
	"bytes"
	"log/slog"
	"sync"

	"github.com/davetashner/tripdash/internal/chart"
	"github.com/davetashner/tripdash/internal/pipeline"
)

// Chart slot names.
const (
	ChartHourly = "hourly"
	ChartZones  = "zones"
)

// BoardOptions configures chart rendering.
type BoardOptions struct {
	// Charts enables PNG rendering of the hourly and zones charts.
	Charts bool
	// ChartsDir, when set, also writes the charts to disk.
	ChartsDir string
}

// Board is the render boundary. It keeps the newest committed full
// dashboard and trips page, and ignores any result that a later refresh
// has overtaken.
type Board struct {
	runner Runner
	opts   BoardOptions

	mu     sync.Mutex
	full   *pipeline.Dashboard
	trips  *pipeline.Dashboard
	slots  map[string]*chart.Slot
	closed bool
}

// NewBoard creates an empty board. r decides which dashboards are current.
func NewBoard(r Runner, opts BoardOptions) *Board {
	return &Board{
		runner: r,
		opts:   opts,
		slots: map[string]*chart.Slot{
			ChartHourly: chart.NewSlot(ChartHourly),
			ChartZones:  chart.NewSlot(ChartZones),
		},
	}
}

// Commit applies d to the board and returns the targets whose views were
// updated. A stale dashboard updates nothing. A trips-only dashboard
// updates only the trips view, and a full dashboard whose trips page was
// overtaken by a later sort change updates everything except trips.
func (b *Board) Commit(d *pipeline.Dashboard) []pipeline.Target {
	if d == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	full, trips := b.runner.Current(d)
	if b.full != nil && d.Generation <= b.full.Generation {
		full = false
	}
	if b.trips != nil && d.TripsGeneration <= b.trips.TripsGeneration {
		trips = false
	}

	var updated []pipeline.Target
	for _, r := range d.Results {
		if r.Target == pipeline.TargetTrips {
			if trips {
				updated = append(updated, r.Target)
			}
			continue
		}
		if full {
			updated = append(updated, r.Target)
		}
	}

	if full {
		b.full = d
		b.renderChartsLocked(d)
	}
	if trips {
		b.trips = d
	}

	if len(updated) == 0 {
		slog.Debug("discarding stale dashboard", "request_id", d.RequestID, "scope", string(d.Scope),
			"generation", d.Generation, "trips_generation", d.TripsGeneration)
	}
	return updated
}

// View returns the dashboard as currently shown: the newest full refresh
// with its trips page replaced by the newest trips result. It returns nil
// before the first full dashboard is committed.
func (b *Board) View() *pipeline.Dashboard {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.full == nil {
		return nil
	}
	v := *b.full
	if b.trips != nil && b.trips != b.full {
		v.Trips = b.trips.Trips
		v.TripsGeneration = b.trips.TripsGeneration
		v.Snapshot.Sort = b.trips.Snapshot.Sort
		v.Results = replaceResult(b.full.Results, b.trips.Results, pipeline.TargetTrips)
	}
	return &v
}

// ChartFile is a copy of a rendered chart, detached from its slot.
type ChartFile struct {
	Name string
	Path string
	PNG  []byte
}

// Chart returns a copy of the chart in slot name. ok is false when the
// slot is unknown or holds no chart.
func (b *Board) Chart(name string) (ChartFile, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.slots[name]
	if !ok {
		return ChartFile{}, false
	}
	img, ok := s.Current().(*chart.Image)
	if !ok || img == nil {
		return ChartFile{}, false
	}
	return ChartFile{
		Name: name,
		Path: img.Path(),
		PNG:  bytes.Clone(img.Bytes()),
	}, true
}

// Close releases every chart.
func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	var first error
	for _, s := range b.slots {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (b *Board) renderChartsLocked(d *pipeline.Dashboard) {
	if !b.opts.Charts {
		return
	}
	b.renderSlot(ChartHourly, d.Has(pipeline.TargetHourly), func() ([]byte, error) {
		return chart.Hourly(d.Hourly)
	})
	b.renderSlot(ChartZones, d.Has(pipeline.TargetZones), func() ([]byte, error) {
		return chart.TopZones(d.Zones)
	})
}

func (b *Board) renderSlot(name string, ok bool, render func() ([]byte, error)) {
	slot := b.slots[name]
	if !ok {
		slot.Clear()
		return
	}
	if err := slot.Render(b.opts.ChartsDir, render); err != nil {
		slog.Warn("chart not rendered", "chart", name, "error", err)
	}
}

func replaceResult(results, from []pipeline.TargetResult, t pipeline.Target) []pipeline.TargetResult {
	out := make([]pipeline.TargetResult, 0, len(results))
	var repl *pipeline.TargetResult
	for i := range from {
		if from[i].Target == t {
			repl = &from[i]
		}
	}
	for _, r := range results {
		if r.Target == t && repl != nil {
			r = *repl
		}
		out = append(out, r)
	}
	return out
}
