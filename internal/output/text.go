package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/davetashner/tripdash/internal/filter"
	"github.com/davetashner/tripdash/internal/pipeline"
)

func init() {
	RegisterFormatter(NewTextFormatter())
}

var (
	colorRed  = color.New(color.FgRed)
	colorBold = color.New(color.Bold)
	colorDim  = color.New(color.Faint)
)

// TextFormatter renders the dashboard for a terminal: KPI and insight
// cards, aligned tables, and an inline message for every view whose data
// could not be fetched.
type TextFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*TextFormatter)(nil)

// NewTextFormatter returns a new TextFormatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format writes d to w. Views that were not part of the refresh are
// omitted; a trips-only dashboard renders only the trips table.
func (f *TextFormatter) Format(d *pipeline.Dashboard, w io.Writer) error {
	if d == nil {
		return nil
	}
	tw := &textWriter{w: w}

	tw.line(colorBold.Sprint("NYC Trip Dashboard"))
	tw.line(colorDim.Sprintf("filters: %s | sort: %s %s", DescribeFilters(d.Snapshot.Filter),
		d.Snapshot.Sort.Column, d.Snapshot.Sort.Direction))

	if d.Scope == pipeline.ScopeFull {
		tw.blank()
		tw.line(renderKPICards(KPIs(d.Summary)))

		tw.section(d, pipeline.TargetHourly, "Trips by Hour", func() {
			t := NewTableFromHeaders(HourlyHeaders, 0, 1)
			for _, p := range d.Hourly {
				t.AddRow(HourlyRow(p)...)
			}
			tw.table(t)
		})
		tw.section(d, pipeline.TargetZones, "Top Pickup Zones", func() {
			t := NewTableFromHeaders(ZoneHeaders, 1)
			for _, z := range d.Zones {
				t.AddRow(ZoneRow(z)...)
			}
			tw.table(t)
		})
		tw.section(d, pipeline.TargetRoutes, "Top Routes", func() {
			t := NewTableFromHeaders(RouteHeaders, 0, 1, 2)
			for _, r := range d.Routes {
				t.AddRow(RouteRow(r)...)
			}
			tw.table(t)
		})
		tw.section(d, pipeline.TargetInsights, "Insights", func() {
			tw.line(renderInsightCards(d.Insights))
		})
	}

	tw.section(d, pipeline.TargetTrips, "Trips", func() {
		t := NewTableFromHeaders(TripHeaders, 1, 2, 3, 4)
		for _, r := range d.Trips {
			t.AddRow(TripRow(r)...)
		}
		tw.table(t)
	})

	tw.section(d, pipeline.TargetHeatmap, "Zone Heatmap", func() {
		t := NewTableFromHeaders(HeatHeaders, 0, 2)
		for _, h := range d.Heatmap {
			t.AddRow(HeatRow(h)...)
		}
		tw.table(t)
	})

	return tw.err
}

// textWriter remembers the first write error so sections can be written
// without checking every call.
type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) line(s string) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintln(tw.w, s)
}

func (tw *textWriter) blank() { tw.line("") }

func (tw *textWriter) table(t *Table) {
	if tw.err != nil {
		return
	}
	if t.Len() == 0 {
		tw.line(colorDim.Sprint("  (no rows)"))
		return
	}
	tw.err = t.Render(tw.w)
}

// section writes a titled view, or the failure message when its fetch
// failed. Targets outside the refresh are skipped.
func (tw *textWriter) section(d *pipeline.Dashboard, t pipeline.Target, title string, body func()) {
	r, ok := d.Result(t)
	if !ok {
		return
	}
	tw.blank()
	tw.line(colorBold.Sprint(title))
	if r.Err != nil {
		tw.line(colorRed.Sprint("  " + r.Message()))
		return
	}
	body()
}

// DescribeFilters lists the active filters as key=value pairs.
func DescribeFilters(s filter.State) string {
	var parts []string
	for _, f := range filter.Fields() {
		if v := f.Get(s); v != "" {
			parts = append(parts, f.Key+"="+v)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
