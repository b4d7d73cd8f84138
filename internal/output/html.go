package output

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/davetashner/tripdash/internal/chart"
	"github.com/davetashner/tripdash/internal/insight"
	"github.com/davetashner/tripdash/internal/pipeline"
)

func init() {
	RegisterFormatter(NewHTMLFormatter())
}

// HTMLFormatter writes the dashboard as a self-contained HTML page. The
// charts are embedded as PNG data URLs and table headers sort client side.
type HTMLFormatter struct {
	nowFunc func() time.Time
}

// Compile-time interface check.
var _ Formatter = (*HTMLFormatter)(nil)

// NewHTMLFormatter returns a new HTMLFormatter.
func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{}
}

// Name returns the format name.
func (h *HTMLFormatter) Name() string {
	return "html"
}

var (
	htmlTmplOnce sync.Once
	htmlTmpl     *template.Template
)

// Format writes d as an HTML page to w.
func (h *HTMLFormatter) Format(d *pipeline.Dashboard, w io.Writer) error {
	if d == nil {
		return nil
	}
	htmlTmplOnce.Do(func() {
		htmlTmpl = template.Must(template.New("dashboard").Parse(htmlTemplate))
	})

	now := time.Now()
	if h.nowFunc != nil {
		now = h.nowFunc()
	}
	if err := htmlTmpl.Execute(w, buildHTMLData(d, now)); err != nil {
		return fmt.Errorf("execute html template: %w", err)
	}
	return nil
}

// htmlData holds all template data for the HTML dashboard.
type htmlData struct {
	GeneratedAt string
	Filters     string
	Sort        string
	Full        bool
	KPIs        []KPI
	Charts      []htmlChart
	Notices     []string
	Sections    []htmlSection
	Insights    *htmlInsights
}

type htmlChart struct {
	Title string
	Src   template.URL
}

type htmlInsights struct {
	Message string
	Records []insight.Record
}

type htmlSection struct {
	ID      string
	Title   string
	Message string
	Headers []string
	Rows    [][]htmlCell
}

type htmlCell struct {
	Text string
	Num  bool
}

func buildHTMLData(d *pipeline.Dashboard, now time.Time) htmlData {
	data := htmlData{
		GeneratedAt: now.UTC().Format("2006-01-02 15:04 UTC"),
		Filters:     DescribeFilters(d.Snapshot.Filter),
		Sort:        fmt.Sprintf("%s %s", d.Snapshot.Sort.Column, d.Snapshot.Sort.Direction),
		Full:        d.Scope == pipeline.ScopeFull,
	}

	if data.Full {
		data.KPIs = KPIs(d.Summary)
		data.Charts = buildHTMLCharts(d)
		if r, ok := d.Result(pipeline.TargetHourly); ok && r.Err != nil {
			data.Notices = append(data.Notices, r.Message())
		}
		data.addSection(d, pipeline.TargetZones, "Top Pickup Zones", ZoneHeaders, []int{1}, len(d.Zones), func(i int) []string { return ZoneRow(d.Zones[i]) })
		data.addSection(d, pipeline.TargetRoutes, "Top Routes", RouteHeaders, []int{0, 1, 2}, len(d.Routes), func(i int) []string { return RouteRow(d.Routes[i]) })
		if r, ok := d.Result(pipeline.TargetInsights); ok {
			data.Insights = &htmlInsights{Message: r.Message(), Records: d.Insights}
		}
	}
	data.addSection(d, pipeline.TargetTrips, "Trips", TripHeaders, []int{1, 2, 3, 4}, len(d.Trips), func(i int) []string { return TripRow(d.Trips[i]) })
	data.addSection(d, pipeline.TargetHeatmap, "Zone Heatmap", HeatHeaders, []int{0, 2}, len(d.Heatmap), func(i int) []string { return HeatRow(d.Heatmap[i]) })
	return data
}

// addSection appends the table for target t. Targets outside the refresh
// are skipped; failed targets carry their message instead of rows.
func (data *htmlData) addSection(d *pipeline.Dashboard, t pipeline.Target, title string, headers []string, numeric []int, n int, row func(int) []string) {
	r, ok := d.Result(t)
	if !ok {
		return
	}
	s := htmlSection{ID: string(t), Title: title, Headers: headers}
	if r.Err != nil {
		s.Message = r.Message()
		data.Sections = append(data.Sections, s)
		return
	}
	num := make(map[int]bool, len(numeric))
	for _, i := range numeric {
		num[i] = true
	}
	for i := range n {
		values := row(i)
		cells := make([]htmlCell, len(values))
		for j, v := range values {
			cells[j] = htmlCell{Text: v, Num: num[j]}
		}
		s.Rows = append(s.Rows, cells)
	}
	data.Sections = append(data.Sections, s)
}

// buildHTMLCharts renders the charts of the views that loaded. A chart that
// cannot be drawn is left out of the page.
func buildHTMLCharts(d *pipeline.Dashboard) []htmlChart {
	var charts []htmlChart
	add := func(title string, ok bool, render func() ([]byte, error)) {
		if !ok {
			return
		}
		png, err := render()
		if err != nil {
			slog.Debug("chart omitted from html", "chart", title, "error", err)
			return
		}
		src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
		charts = append(charts, htmlChart{Title: title, Src: template.URL(src)}) //nolint:gosec // generated PNG data
	}
	add("Trips by Hour", d.Has(pipeline.TargetHourly), func() ([]byte, error) { return chart.Hourly(d.Hourly) })
	add("Top Pickup Zones", d.Has(pipeline.TargetZones), func() ([]byte, error) { return chart.TopZones(d.Zones) })
	return charts
}
