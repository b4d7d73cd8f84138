package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/davetashner/tripdash/internal/output"
	"github.com/davetashner/tripdash/internal/tablesort"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.APIURL != "" {
		u, err := url.Parse(cfg.APIURL)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("api_url: %v", err))
		case u.Scheme != "http" && u.Scheme != "https":
			errs = append(errs, fmt.Sprintf("api_url: scheme must be http or https, got %q", u.Scheme))
		case u.Host == "":
			errs = append(errs, "api_url: missing host")
		}
	}

	if cfg.OutputFormat != "" {
		if _, err := output.GetFormatter(cfg.OutputFormat); err != nil {
			errs = append(errs, fmt.Sprintf("output_format: %v", err))
		}
	}

	if cfg.TopK != 0 && (cfg.TopK < 1 || cfg.TopK > MaxTopK) {
		errs = append(errs, fmt.Sprintf("top_k: must be between 1 and %d, got %d", MaxTopK, cfg.TopK))
	}

	if cfg.TripsLimit != 0 && (cfg.TripsLimit < 1 || cfg.TripsLimit > tablesort.MaxLimit) {
		errs = append(errs, fmt.Sprintf("trips_limit: must be between 1 and %d, got %d", tablesort.MaxLimit, cfg.TripsLimit))
	}

	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("timeout: invalid duration %q", cfg.Timeout))
		case d < 0:
			errs = append(errs, fmt.Sprintf("timeout: must be non-negative, got %s", cfg.Timeout))
		}
	}

	for _, p := range cfg.Filters.Problems() {
		errs = append(errs, "filters."+p)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
