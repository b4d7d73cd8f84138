package main

import (
	"io"
	"log/slog"

	"github.com/davetashner/tripdash/internal/api"
	"github.com/davetashner/tripdash/internal/config"
	"github.com/davetashner/tripdash/internal/output"
	"github.com/davetashner/tripdash/internal/pipeline"
)

// cliConfig returns the config layer built from the global flags. Command
// specific flags are added by each command before loadSettings.
func cliConfig() config.Config {
	return config.Config{APIURL: apiURL, Timeout: timeout}
}

// loadSettings layers cli over the project and global config files,
// validates the result and applies defaults. Every failure is an
// ExitInvalidArgs error, raised before any request is made.
func loadSettings(cli config.Config) (config.Settings, error) {
	project, err := config.Load(".")
	if err != nil {
		return config.Settings{}, exitError(ExitInvalidArgs, "tripdash: cannot load %s (%v)", config.FileName, err)
	}
	global, err := config.LoadGlobal()
	if err != nil {
		return config.Settings{}, exitError(ExitInvalidArgs, "tripdash: cannot load global config (%v)", err)
	}

	merged := config.Layers(cli, project, global)
	if err := config.Validate(&merged); err != nil {
		return config.Settings{}, exitError(ExitInvalidArgs, "tripdash: %v", err)
	}
	settings, err := config.Resolve(merged)
	if err != nil {
		return config.Settings{}, exitError(ExitInvalidArgs, "tripdash: %v", err)
	}
	slog.Debug("settings resolved", "api_url", settings.APIURL, "format", settings.OutputFormat,
		"top_k", settings.TopK, "trips_limit", settings.TripsLimit)
	return settings, nil
}

// newClient builds the API client for settings.
func newClient(settings config.Settings) *api.Client {
	return api.New(settings.APIURL,
		api.WithTimeout(settings.Timeout),
		api.WithUserAgent("tripdash/"+Version),
	)
}

// writeDashboard renders d with the named formatter and maps failed
// targets to ExitPartialFailure. The output is written either way.
func writeDashboard(w io.Writer, format string, d *pipeline.Dashboard) error {
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return exitError(ExitInvalidArgs, "tripdash: %v", err)
	}
	if err := formatter.Format(d, w); err != nil {
		return exitError(ExitTotalFailure, "tripdash: formatting failed (%v)", err)
	}
	if len(d.Failed()) > 0 {
		return exitError(ExitPartialFailure, "")
	}
	return nil
}
