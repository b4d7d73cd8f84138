package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/davetashner/tripdash/internal/pipeline"
)

func init() {
	RegisterFormatter(NewMarkdownFormatter())
}

// MarkdownFormatter writes the dashboard as a Markdown report.
type MarkdownFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*MarkdownFormatter)(nil)

// NewMarkdownFormatter returns a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the format name.
func (m *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format writes d to w.
//
// The output includes:
//   - A title heading and the active filters
//   - A KPI table
//   - One section per view, or a blockquote when its data was unavailable
func (m *MarkdownFormatter) Format(d *pipeline.Dashboard, w io.Writer) error {
	if d == nil {
		return nil
	}
	mw := &mdWriter{w: w}

	mw.printf("# NYC Trip Dashboard\n\n")
	mw.printf("**Filters:** %s | **Sort:** %s %s\n\n", DescribeFilters(d.Snapshot.Filter),
		d.Snapshot.Sort.Column, d.Snapshot.Sort.Direction)

	if d.Scope == pipeline.ScopeFull {
		mw.printf("## Summary\n\n")
		kpis := KPIs(d.Summary)
		labels := make([]string, len(kpis))
		values := make([]string, len(kpis))
		for i, k := range kpis {
			labels[i], values[i] = k.Label, k.Value
		}
		mw.table(labels, [][]string{values})

		mw.section(d, pipeline.TargetHourly, "Trips by Hour", func() {
			rows := make([][]string, len(d.Hourly))
			for i, p := range d.Hourly {
				rows[i] = HourlyRow(p)
			}
			mw.table(HourlyHeaders, rows)
		})
		mw.section(d, pipeline.TargetZones, "Top Pickup Zones", func() {
			rows := make([][]string, len(d.Zones))
			for i, z := range d.Zones {
				rows[i] = ZoneRow(z)
			}
			mw.table(ZoneHeaders, rows)
		})
		mw.section(d, pipeline.TargetRoutes, "Top Routes", func() {
			rows := make([][]string, len(d.Routes))
			for i, r := range d.Routes {
				rows[i] = RouteRow(r)
			}
			mw.table(RouteHeaders, rows)
		})
		mw.section(d, pipeline.TargetInsights, "Insights", func() {
			for _, r := range d.Insights {
				mw.printf("### %s\n\n**%s**\n\n%s\n\n", r.Title, escapeCell(r.Stat), r.Detail)
			}
		})
	}

	mw.section(d, pipeline.TargetTrips, "Trips", func() {
		rows := make([][]string, len(d.Trips))
		for i, r := range d.Trips {
			rows[i] = TripRow(r)
		}
		mw.table(TripHeaders, rows)
	})
	mw.section(d, pipeline.TargetHeatmap, "Zone Heatmap", func() {
		rows := make([][]string, len(d.Heatmap))
		for i, h := range d.Heatmap {
			rows[i] = HeatRow(h)
		}
		mw.table(HeatHeaders, rows)
	})

	return mw.err
}

type mdWriter struct {
	w   io.Writer
	err error
}

func (mw *mdWriter) printf(format string, args ...any) {
	if mw.err != nil {
		return
	}
	if _, err := fmt.Fprintf(mw.w, format, args...); err != nil {
		mw.err = fmt.Errorf("write markdown: %w", err)
	}
}

func (mw *mdWriter) table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		mw.printf("_No rows._\n\n")
		return
	}
	mw.printf("| %s |\n", strings.Join(escapeAll(headers), " | "))
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	mw.printf("|%s|\n", strings.Join(seps, "|"))
	for _, r := range rows {
		mw.printf("| %s |\n", strings.Join(escapeAll(r), " | "))
	}
	mw.printf("\n")
}

func (mw *mdWriter) section(d *pipeline.Dashboard, t pipeline.Target, title string, body func()) {
	r, ok := d.Result(t)
	if !ok {
		return
	}
	mw.printf("## %s\n\n", title)
	if r.Err != nil {
		mw.printf("> %s\n\n", r.Message())
		return
	}
	body()
}

func escapeAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = escapeCell(c)
	}
	return out
}

// escapeCell keeps pipes inside table cells from splitting the row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
