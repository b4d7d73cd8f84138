// Package config handles .tripdash.yaml configuration files.
package config

import (
	"fmt"
	"time"

	"github.com/davetashner/tripdash/internal/api"
	"github.com/davetashner/tripdash/internal/filter"
	"github.com/davetashner/tripdash/internal/pipeline"
	"github.com/davetashner/tripdash/internal/tablesort"
)

// Config represents the contents of a .tripdash.yaml file. Zero values mean
// "not set" and fall through to the next layer.
type Config struct {
	APIURL       string       `yaml:"api_url,omitempty"`
	OutputFormat string       `yaml:"output_format,omitempty"`
	TopK         int          `yaml:"top_k,omitempty"`
	TripsLimit   int          `yaml:"trips_limit,omitempty"`
	Timeout      string       `yaml:"timeout,omitempty"`
	ChartsDir    string       `yaml:"charts_dir,omitempty"`
	Filters      filter.State `yaml:"filters,omitempty"`
}

// FileName is the expected config file name in the working directory.
const FileName = ".tripdash.yaml"

// DefaultOutputFormat is used when no layer sets output_format.
const DefaultOutputFormat = "text"

// MaxTopK bounds top_k.
const MaxTopK = 100

// Settings is a fully resolved configuration with defaults applied.
type Settings struct {
	APIURL       string
	OutputFormat string
	TopK         int
	TripsLimit   int
	// Timeout is the per-request timeout; zero keeps the transport default.
	Timeout   time.Duration
	ChartsDir string
	Filters   filter.State
}

// Resolve applies built-in defaults to cfg and parses its durations. cfg is
// normally the result of merging every layer.
func Resolve(cfg Config) (Settings, error) {
	s := Settings{
		APIURL:       cfg.APIURL,
		OutputFormat: cfg.OutputFormat,
		TopK:         cfg.TopK,
		TripsLimit:   cfg.TripsLimit,
		ChartsDir:    cfg.ChartsDir,
		Filters:      cfg.Filters,
	}
	if s.APIURL == "" {
		s.APIURL = api.DefaultBaseURL
	}
	if s.OutputFormat == "" {
		s.OutputFormat = DefaultOutputFormat
	}
	if s.TopK == 0 {
		s.TopK = pipeline.DefaultTopK
	}
	if s.TripsLimit == 0 {
		s.TripsLimit = tablesort.DefaultLimit
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return Settings{}, fmt.Errorf("timeout: %w", err)
		}
		s.Timeout = d
	}
	return s, nil
}
