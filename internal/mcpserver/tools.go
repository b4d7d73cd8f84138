package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/tripdash/internal/api"
	"github.com/davetashner/tripdash/internal/chart"
	"github.com/davetashner/tripdash/internal/config"
	"github.com/davetashner/tripdash/internal/output"
	"github.com/davetashner/tripdash/internal/pipeline"
	"github.com/davetashner/tripdash/internal/tablesort"
)

// DashboardInput is the input schema for the dashboard MCP tool.
type DashboardInput struct {
	Filters FilterInput `json:"filters,omitempty" jsonschema:"Filters applied to every aggregate"`
	Format  string      `json:"format,omitempty" jsonschema:"Output format: json, markdown, text or html (default: json)"`
	TopK    int         `json:"top_k,omitempty" jsonschema:"Number of top zones and routes (1-100, default from config)"`
	Heatmap string      `json:"heatmap,omitempty" jsonschema:"Also fetch the zone heatmap: pickups or dropoffs"`
	Charts  bool        `json:"charts,omitempty" jsonschema:"Attach the hourly and top zones charts as PNG images"`
}

// TripsInput is the input schema for the trips MCP tool.
type TripsInput struct {
	Filters FilterInput `json:"filters,omitempty" jsonschema:"Filters applied to the trips page"`
	Sort    string      `json:"sort,omitempty" jsonschema:"Sort column: pickup_datetime, distance, fare, total or duration"`
	Order   string      `json:"order,omitempty" jsonschema:"Sort order: asc or desc (default: desc)"`
	Limit   int         `json:"limit,omitempty" jsonschema:"Page size (1-500, default from config)"`
	Offset  int         `json:"offset,omitempty" jsonschema:"Page offset"`
	Format  string      `json:"format,omitempty" jsonschema:"Output format: json, markdown, text or html (default: json)"`
}

// FilterOptionsInput is the input schema for the filter_options MCP tool.
type FilterOptionsInput struct{}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

type tools struct {
	client   *api.Client
	settings config.Settings
}

// registerTools adds all tripdash tools to the MCP server.
func registerTools(server *mcp.Server, t *tools) {
	readOnly := &mcp.ToolAnnotations{
		ReadOnlyHint:    true,
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(true),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dashboard",
		Description: "Fetch the NYC taxi trip dashboard for a set of filters: KPIs, trips by hour, top pickup zones and routes, a trips page, and derived insights. Views that fail are reported as unavailable.",
		Annotations: readOnly,
	}, t.handleDashboard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "trips",
		Description: "Fetch one sorted page of individual trips matching the filters.",
		Annotations: readOnly,
	}, t.handleTrips)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "filter_options",
		Description: "List the selectable boroughs, payment types and the available date range.",
		Annotations: readOnly,
	}, t.handleFilterOptions)
}

func (t *tools) handleDashboard(ctx context.Context, _ *mcp.CallToolRequest, input DashboardInput) (*mcp.CallToolResult, any, error) {
	formatter, err := resolveFormatter(input.Format)
	if err != nil {
		return nil, nil, err
	}
	f, err := ResolveFilters(input.Filters, t.settings.Filters)
	if err != nil {
		return nil, nil, err
	}
	topK := t.settings.TopK
	if input.TopK != 0 {
		if input.TopK < 1 || input.TopK > config.MaxTopK {
			return nil, nil, fmt.Errorf("top_k must be between 1 and %d, got %d", config.MaxTopK, input.TopK)
		}
		topK = input.TopK
	}
	switch input.Heatmap {
	case "", "pickups", "dropoffs":
	default:
		return nil, nil, fmt.Errorf("heatmap must be pickups or dropoffs, got %q", input.Heatmap)
	}

	o := pipeline.New(t.client, pipeline.Options{
		TopK:          topK,
		TripsLimit:    t.settings.TripsLimit,
		HeatmapMetric: input.Heatmap,
	})
	snap := pipeline.Snapshot{Filter: f}
	snap.Sort = tablesort.Initial()

	d, err := o.Refresh(ctx, snap)
	if err != nil {
		return nil, nil, fmt.Errorf("dashboard failed: %w", err)
	}

	var buf bytes.Buffer
	if err := formatter.Format(d, &buf); err != nil {
		return nil, nil, fmt.Errorf("formatting failed: %w", err)
	}
	content := []mcp.Content{&mcp.TextContent{Text: buf.String()}}
	if input.Charts {
		content = append(content, chartImages(d)...)
	}
	return &mcp.CallToolResult{Content: content}, nil, nil
}

func (t *tools) handleTrips(ctx context.Context, _ *mcp.CallToolRequest, input TripsInput) (*mcp.CallToolResult, any, error) {
	formatter, err := resolveFormatter(input.Format)
	if err != nil {
		return nil, nil, err
	}
	f, err := ResolveFilters(input.Filters, t.settings.Filters)
	if err != nil {
		return nil, nil, err
	}
	s, err := tablesort.Parse(input.Sort, input.Order)
	if err != nil {
		return nil, nil, err
	}
	limit := t.settings.TripsLimit
	if input.Limit != 0 {
		if input.Limit < 1 || input.Limit > tablesort.MaxLimit {
			return nil, nil, fmt.Errorf("limit must be between 1 and %d, got %d", tablesort.MaxLimit, input.Limit)
		}
		limit = input.Limit
	}
	if input.Offset < 0 {
		return nil, nil, fmt.Errorf("offset must be non-negative, got %d", input.Offset)
	}

	o := pipeline.New(t.client, pipeline.Options{TripsLimit: limit, TripsOffset: input.Offset})
	d, err := o.RefreshTrips(ctx, pipeline.Snapshot{Filter: f, Sort: s})
	if err != nil {
		return nil, nil, err
	}
	if err := d.Err(pipeline.TargetTrips); err != nil {
		return nil, nil, fmt.Errorf("trips failed: %w", err)
	}

	var buf bytes.Buffer
	if err := formatter.Format(d, &buf); err != nil {
		return nil, nil, fmt.Errorf("formatting failed: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: buf.String()}},
	}, nil, nil
}

func (t *tools) handleFilterOptions(ctx context.Context, _ *mcp.CallToolRequest, _ FilterOptionsInput) (*mcp.CallToolResult, any, error) {
	opts, err := t.client.FilterOptions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("filter options failed: %w", err)
	}
	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal filter options: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// resolveFormatter defaults to json for MCP consumers.
func resolveFormatter(name string) (output.Formatter, error) {
	if name == "" {
		name = "json"
	}
	f, err := output.GetFormatter(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported format %q", name)
	}
	return f, nil
}

// chartImages renders the charts of d that have data. Rendering failures
// only drop the image.
func chartImages(d *pipeline.Dashboard) []mcp.Content {
	var out []mcp.Content
	if d.Has(pipeline.TargetHourly) {
		if png, err := chart.Hourly(d.Hourly); err == nil {
			out = append(out, &mcp.ImageContent{Data: png, MIMEType: "image/png"})
		}
	}
	if d.Has(pipeline.TargetZones) {
		if png, err := chart.TopZones(d.Zones); err == nil {
			out = append(out, &mcp.ImageContent{Data: png, MIMEType: "image/png"})
		}
	}
	return out
}
