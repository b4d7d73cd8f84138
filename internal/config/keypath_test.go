package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/tripdash/internal/filter"
)

func TestKeys(t *testing.T) {
	var paths []string
	for _, k := range Keys() {
		paths = append(paths, k.Path)
	}
	assert.Equal(t, []string{
		"api_url", "output_format", "top_k", "trips_limit", "timeout", "charts_dir",
		"filters.start_date", "filters.end_date", "filters.borough", "filters.payment_type",
		"filters.min_distance", "filters.max_distance", "filters.min_fare", "filters.max_fare",
	}, paths)
}

func TestGetValue_TopLevel(t *testing.T) {
	cfg := &Config{OutputFormat: "json", TopK: 42, APIURL: "http://x/api"}

	val, err := GetValue(cfg, "output_format")
	require.NoError(t, err)
	assert.Equal(t, "json", val)

	val, err = GetValue(cfg, "top_k")
	require.NoError(t, err)
	assert.Equal(t, 42, val)

	val, err = GetValue(cfg, "api_url")
	require.NoError(t, err)
	assert.Equal(t, "http://x/api", val)
}

func TestGetValue_Filter(t *testing.T) {
	cfg := &Config{Filters: filter.State{Borough: "Queens", MinFare: "2.5"}}

	val, err := GetValue(cfg, "filters.borough")
	require.NoError(t, err)
	assert.Equal(t, "Queens", val)

	val, err = GetValue(cfg, "filters")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"borough": "Queens", "min_fare": "2.5"}, val)
}

func TestGetValue_NotFound(t *testing.T) {
	_, err := GetValue(&Config{}, "output_format")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = GetValue(&Config{}, "filters.borough")
	assert.Error(t, err)

	_, err = GetValue(&Config{}, "filters")
	assert.Error(t, err)

	_, err = GetValue(&Config{}, "color")
	assert.ErrorContains(t, err, "unknown key")
}

func TestValues(t *testing.T) {
	cfg := &Config{
		OutputFormat: "json",
		TripsLimit:   25,
		Filters:      filter.State{Borough: "Queens", MaxFare: "40"},
	}
	assert.Equal(t, map[string]any{
		"output_format":    "json",
		"trips_limit":      25,
		"filters.borough":  "Queens",
		"filters.max_fare": "40",
	}, Values(cfg))
	assert.Empty(t, Values(&Config{}))
}

func TestSetValue_Simple(t *testing.T) {
	data := make(map[string]any)
	require.NoError(t, SetValue(data, "output_format", "json"))
	require.NoError(t, SetValue(data, "top_k", "25"))
	require.NoError(t, SetValue(data, "timeout", "30s"))
	assert.Equal(t, "json", data["output_format"])
	assert.Equal(t, 25, data["top_k"])
	assert.Equal(t, "30s", data["timeout"])
}

func TestSetValue_IntegerKeyRejectsText(t *testing.T) {
	data := make(map[string]any)
	err := SetValue(data, "trips_limit", "many")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trips_limit must be an integer")
	assert.Empty(t, data)
}

func TestSetValue_FilterKeepsString(t *testing.T) {
	data := make(map[string]any)
	require.NoError(t, SetValue(data, "filters.payment_type", "1"))
	require.NoError(t, SetValue(data, "filters.min_fare", "2.50"))

	filters, ok := data["filters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1", filters["payment_type"])
	assert.Equal(t, "2.50", filters["min_fare"])
}

func TestSetValue_OverwriteExisting(t *testing.T) {
	data := map[string]any{"output_format": "markdown"}
	require.NoError(t, SetValue(data, "output_format", "json"))
	assert.Equal(t, "json", data["output_format"])
}

func TestSetValue_NonMapParent(t *testing.T) {
	data := map[string]any{"filters": "oops"}
	err := SetValue(data, "filters.borough", "Queens")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a map")
}

func TestLookupKey(t *testing.T) {
	for _, k := range Keys() {
		got, err := LookupKey(k.Path)
		require.NoError(t, err, k.Path)
		assert.Equal(t, k.Path, got.Path)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"", "empty key path"},
		{"color", `unknown key "color"`},
		{"top_k.value", "is a scalar"},
		{"filters", "requires a filter name"},
		{"filters.tip", `unknown filter "tip"`},
		{"filters.borough.name", "too deep"},
	}
	for _, tt := range tests {
		_, err := LookupKey(tt.key)
		require.Error(t, err, tt.key)
		assert.Contains(t, err.Error(), tt.want, tt.key)
	}
}

func TestLookupKey_ListsValidKeys(t *testing.T) {
	_, err := LookupKey("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_url, charts_dir, filters, output_format, timeout, top_k, trips_limit")

	_, err = LookupKey("filters.nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date, end_date, borough")
}
