package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davetashner/tripdash/internal/filter"
)

func TestMerge_CLIWins(t *testing.T) {
	file := &Config{
		APIURL:       "http://file/api",
		OutputFormat: "markdown",
		TopK:         5,
		TripsLimit:   20,
		Timeout:      "10s",
		ChartsDir:    "file-charts",
	}
	cli := Config{
		APIURL:       "http://cli/api",
		OutputFormat: "json",
		TopK:         7,
		TripsLimit:   70,
		Timeout:      "3s",
		ChartsDir:    "cli-charts",
	}
	assert.Equal(t, cli, Merge(file, cli))
}

func TestMerge_ZeroValuesFallThrough(t *testing.T) {
	file := &Config{
		APIURL:       "http://file/api",
		OutputFormat: "markdown",
		TopK:         5,
		TripsLimit:   20,
		Timeout:      "10s",
		ChartsDir:    "charts",
		Filters:      filter.State{Borough: "Queens"},
	}
	assert.Equal(t, *file, Merge(file, Config{}))
}

func TestMerge_FiltersPerField(t *testing.T) {
	file := &Config{Filters: filter.State{Borough: "Queens", MinFare: "5", StartDate: "2024-01-01"}}
	cli := Config{Filters: filter.State{Borough: "Bronx", MaxFare: "50"}}

	got := Merge(file, cli)
	assert.Equal(t, filter.State{
		StartDate: "2024-01-01",
		Borough:   "Bronx",
		MinFare:   "5",
		MaxFare:   "50",
	}, got.Filters)
}

func TestMerge_NilFile(t *testing.T) {
	cli := Config{TopK: 4}
	assert.Equal(t, cli, Merge(nil, cli))
}

func TestLayers_Precedence(t *testing.T) {
	global := &Config{OutputFormat: "markdown", TopK: 3, Timeout: "5s", Filters: filter.State{Borough: "Bronx", MinFare: "1"}}
	project := &Config{OutputFormat: "json", Filters: filter.State{Borough: "Queens"}}
	cli := Config{TopK: 8}

	got := Layers(cli, project, global)
	assert.Equal(t, "json", got.OutputFormat)
	assert.Equal(t, 8, got.TopK)
	assert.Equal(t, "5s", got.Timeout)
	assert.Equal(t, "Queens", got.Filters.Borough)
	assert.Equal(t, "1", got.Filters.MinFare)
}
