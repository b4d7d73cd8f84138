// Copyright 2026 The Tripdash Authors
// SPDX-License-Identifier: MIT

// Package api is the HTTP client for the trip aggregate API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/davetashner/tripdash/internal/aggregate"
)

// DefaultBaseURL is the public aggregate API origin.
const DefaultBaseURL = "https://urban-mobility-data-explorer-hqlv.onrender.com/api"

// Endpoint paths.
const (
	PathHealth        = "/health"
	PathFilterOptions = "/filter-options"
	PathSummary       = "/summary"
	PathHourlyTrips   = "/hourly-trips"
	PathTopZones      = "/top-zones"
	PathTopRoutes     = "/top-routes"
	PathTrips         = "/trips"
	PathInsights      = "/insights"
	PathZoneHeatmap   = "/zones/heatmap"
)

const maxResponseBytes = 32 * 1024 * 1024 // 32 MiB

// RequestIDHeader carries the refresh cycle id on every request.
const RequestIDHeader = "X-Request-ID"

// Client performs single GET requests against the aggregate API. It never
// retries: a failure is terminal for that request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets a whole-request timeout. Zero keeps the transport
// default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "tripdash",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API origin the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// JoinURL builds base+path, appending "?"+query only when query is
// non-empty.
func JoinURL(base, path, query string) string {
	if query == "" {
		return base + path
	}
	return base + path + "?" + query
}

// Fetch GETs path with the given query string and decodes the JSON body
// into v. Non-2xx responses yield *HTTPError without reading the body,
// malformed bodies yield *DecodeError and transport failures yield
// *NetworkError.
func (c *Client) Fetch(ctx context.Context, path, query string, v any) error {
	url := JoinURL(c.baseURL, path, query)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &NetworkError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	id := RequestID(ctx)
	if id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("fetch", "url", url, "status", resp.StatusCode, "request_id", id,
		"duration", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain to allow connection reuse.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &HTTPError{Status: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{URL: url, Err: err}
	}
	return nil
}

// Health checks API liveness.
func (c *Client) Health(ctx context.Context) (*aggregate.Health, error) {
	return get[aggregate.Health](ctx, c, PathHealth, "")
}

// FilterOptions returns the selectable filter values.
func (c *Client) FilterOptions(ctx context.Context) (*aggregate.FilterOptions, error) {
	return get[aggregate.FilterOptions](ctx, c, PathFilterOptions, "")
}

// Summary returns the KPI aggregate for the encoded filters in query.
func (c *Client) Summary(ctx context.Context, query string) (*aggregate.Summary, error) {
	return get[aggregate.Summary](ctx, c, PathSummary, query)
}

// HourlyTrips returns trip counts per pickup hour.
func (c *Client) HourlyTrips(ctx context.Context, query string) ([]aggregate.HourlyPoint, error) {
	return getList[aggregate.HourlyPoint](ctx, c, PathHourlyTrips, query)
}

// TopZones returns the k busiest pickup zones.
func (c *Client) TopZones(ctx context.Context, query string, k int) ([]aggregate.ZoneAggregate, error) {
	return getList[aggregate.ZoneAggregate](ctx, c, PathTopZones, withParam(query, "k="+strconv.Itoa(k)))
}

// TopRoutes returns the k most frequent pickup/dropoff pairs.
func (c *Client) TopRoutes(ctx context.Context, query string, k int) ([]aggregate.RouteAggregate, error) {
	return getList[aggregate.RouteAggregate](ctx, c, PathTopRoutes, withParam(query, "k="+strconv.Itoa(k)))
}

// Trips returns one page of trip records. query must already carry the
// paging and sort parameters.
func (c *Client) Trips(ctx context.Context, query string) ([]aggregate.TripRecord, error) {
	return getList[aggregate.TripRecord](ctx, c, PathTrips, query)
}

// Insights returns the raw insight aggregates.
func (c *Client) Insights(ctx context.Context, query string) (*aggregate.InsightsRaw, error) {
	return get[aggregate.InsightsRaw](ctx, c, PathInsights, query)
}

// ZoneHeatmap returns per-zone trip counts with geometry. metric is
// "pickups" or "dropoffs"; query holds the encoded filters.
func (c *Client) ZoneHeatmap(ctx context.Context, metric, query string) ([]aggregate.ZoneHeat, error) {
	return getList[aggregate.ZoneHeat](ctx, c, PathZoneHeatmap, withParam(query, "metric="+metric))
}

func get[T any](ctx context.Context, c *Client, path, query string) (*T, error) {
	var v T
	if err := c.Fetch(ctx, path, query, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func getList[T any](ctx context.Context, c *Client, path, query string) ([]T, error) {
	var rows []T
	if err := c.Fetch(ctx, path, query, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func withParam(query, param string) string {
	if query == "" {
		return param
	}
	return query + "&" + param
}
