// Copyright 2026 The Tripdash Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/tripdash/internal/api"
	"github.com/davetashner/tripdash/internal/filter"
	"github.com/davetashner/tripdash/internal/output"
	"github.com/davetashner/tripdash/internal/pipeline"
	"github.com/davetashner/tripdash/internal/session"
	"github.com/davetashner/tripdash/internal/tablesort"
)

// Shell-specific flag values.
var (
	shellFilters   filter.State
	shellFormat    string
	shellTopK      int
	shellLimit     int
	shellChartsDir string
)

// shellCmd runs an interactive dashboard session.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Explore the dashboard interactively",
	Long: `Start an interactive session that keeps a filter and sort selection and
re-renders the dashboard after every change.

Commands:
  set <filter> [value]     change one filter (no value clears it)
  apply <filter>=<value>…  change several filters with one refresh
  reset                    clear every filter
  sort <column>            sort the trips table; repeat to flip the order
  show                     render the current dashboard again
  filters                  print the current filters and sort
  help                     list commands
  quit                     leave the shell

Refreshes run in the background. A result overtaken by a later command is
discarded instead of rendered. Unset start and end dates default to the
range reported by the API.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	filter.BindFlags(shellCmd.Flags(), &shellFilters)
	shellCmd.Flags().StringVarP(&shellFormat, "format", "f", "", "output format (html, json, markdown, text)")
	shellCmd.Flags().IntVar(&shellTopK, "top-k", 0, "number of top zones and routes (default 10)")
	shellCmd.Flags().IntVar(&shellLimit, "limit", 0, "trips page size (default 50, max 500)")
	shellCmd.Flags().StringVar(&shellChartsDir, "charts-dir", "", "keep hourly.png and zones.png current in this directory")
}

func runShell(cmd *cobra.Command, _ []string) error {
	cli := cliConfig()
	cli.OutputFormat = shellFormat
	cli.TopK = shellTopK
	cli.TripsLimit = shellLimit
	cli.ChartsDir = shellChartsDir
	cli.Filters = filter.Changed(cmd.Flags(), shellFilters)

	settings, err := loadSettings(cli)
	if err != nil {
		return err
	}
	formatter, err := output.GetFormatter(settings.OutputFormat)
	if err != nil {
		return exitError(ExitInvalidArgs, "tripdash: %v", err)
	}

	client := newClient(settings)
	ctx := cmd.Context()
	initial := bootstrapDates(ctx, client, settings.Filters)

	o := pipeline.New(client, pipeline.Options{TopK: settings.TopK, TripsLimit: settings.TripsLimit})
	sh := &shell{
		ctx:       ctx,
		sess:      session.New(o, initial),
		board:     session.NewBoard(o, session.BoardOptions{Charts: settings.ChartsDir != "", ChartsDir: settings.ChartsDir}),
		formatter: formatter,
		w:         cmd.OutOrStdout(),
	}
	defer func() {
		if err := sh.board.Close(); err != nil {
			slog.Warn("closing charts", "error", err)
		}
	}()

	sh.println(color.New(color.Bold).Sprint("tripdash shell") + " (type help for commands)")
	sh.dispatch(sh.sess.Load())
	sh.loop(cmd.InOrStdin())
	sh.wg.Wait()
	return nil
}

// bootstrapDates fills unset start and end dates from the API's date range.
// A failure leaves the filters unchanged.
func bootstrapDates(ctx context.Context, client *api.Client, f filter.State) filter.State {
	if f.StartDate != "" && f.EndDate != "" {
		return f
	}
	opts, err := client.FilterOptions(ctx)
	if err != nil {
		slog.Warn("filter options unavailable; starting without a date range", "error", err)
		return f
	}
	return f.Merge(filter.State{StartDate: opts.MinDate, EndDate: opts.MaxDate})
}

type shell struct {
	ctx       context.Context
	sess      *session.Session
	board     *session.Board
	formatter output.Formatter
	w         io.Writer

	mu sync.Mutex // serializes writes to w
	wg sync.WaitGroup
}

func (sh *shell) loop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !sh.exec(line) {
			return
		}
	}
}

// exec runs one command line and reports whether the shell should go on.
func (sh *shell) exec(line string) bool {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "quit", "exit":
		return false
	case "help":
		sh.println(shellHelp)
	case "show":
		sh.render()
	case "filters":
		snap := sh.sess.Snapshot()
		sh.println(describeSnapshot(snap))
	case "reset":
		sh.dispatch(sh.sess.Reset())
	case "sort":
		a, err := sh.sess.ClickSort(rest)
		if err != nil {
			sh.errorf("%v", err)
			return true
		}
		sh.dispatch(a)
	case "set":
		key, value, _ := strings.Cut(rest, " ")
		candidate, err := withFilter(sh.sess.Filter(), key, strings.TrimSpace(value))
		if err != nil {
			sh.errorf("%v", err)
			return true
		}
		if err := candidate.Validate(); err != nil {
			sh.errorf("%v", err)
			return true
		}
		a, err := sh.sess.Set(key, value)
		if err != nil {
			sh.errorf("%v", err)
			return true
		}
		sh.dispatch(a)
	case "apply":
		candidate, err := parseAssignments(sh.sess.Filter(), rest)
		if err != nil {
			sh.errorf("%v", err)
			return true
		}
		if err := candidate.Validate(); err != nil {
			sh.errorf("%v", err)
			return true
		}
		sh.dispatch(sh.sess.Apply(candidate))
	default:
		sh.errorf("unknown command %q (type help for commands)", name)
	}
	return true
}

// dispatch runs the refresh for a in the background and renders the board
// if the result was still current when it arrived.
func (sh *shell) dispatch(a session.Action) {
	sh.wg.Add(1)
	go func() {
		defer sh.wg.Done()
		d, err := sh.sess.Run(sh.ctx, a)
		if err != nil {
			slog.Error("dashboard unavailable", "error", err)
			sh.errorf("%v", err)
			return
		}
		if updated := sh.board.Commit(d); len(updated) > 0 {
			sh.render()
		}
	}()
}

func (sh *shell) render() {
	v := sh.board.View()
	if v == nil {
		sh.println("no dashboard loaded yet")
		return
	}
	var buf bytes.Buffer
	if err := sh.formatter.Format(v, &buf); err != nil {
		sh.errorf("formatting failed: %v", err)
		return
	}
	for _, name := range []string{session.ChartHourly, session.ChartZones} {
		if c, ok := sh.board.Chart(name); ok && c.Path != "" {
			fmt.Fprintf(&buf, "chart: %s\n", c.Path)
		}
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, _ = sh.w.Write(buf.Bytes())
}

func (sh *shell) println(s string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, _ = fmt.Fprintln(sh.w, s)
}

func (sh *shell) errorf(format string, args ...any) {
	sh.println(color.RedString("error: "+format, args...))
}

// withFilter returns f with key set to value.
func withFilter(f filter.State, key, value string) (filter.State, error) {
	fld, ok := filter.Lookup(key)
	if !ok {
		return f, fmt.Errorf("unknown filter %q", key)
	}
	fld.Set(&f, value)
	return f, nil
}

// parseAssignments applies "key=value" pairs to f. A token without "="
// continues the previous value, so "borough=Staten Island" works unquoted.
func parseAssignments(f filter.State, s string) (filter.State, error) {
	if s == "" {
		return f, fmt.Errorf("apply needs at least one <filter>=<value>")
	}
	var key string
	values := make(map[string][]string)
	var order []string
	for _, tok := range strings.Fields(s) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			if key == "" {
				return f, fmt.Errorf("expected <filter>=<value>, got %q", tok)
			}
			values[key] = append(values[key], tok)
			continue
		}
		key = k
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = []string{v}
	}
	for _, k := range order {
		var err error
		f, err = withFilter(f, k, strings.Join(values[k], " "))
		if err != nil {
			return f, err
		}
	}
	return f, nil
}

func describeSnapshot(snap pipeline.Snapshot) string {
	return fmt.Sprintf("filters: %s\nsort: %s %s (columns: %s)", output.DescribeFilters(snap.Filter),
		snap.Sort.Column, snap.Sort.Direction, strings.Join(tablesort.Columns, ", "))
}

const shellHelp = `commands:
  set <filter> [value]     change one filter (no value clears it)
  apply <filter>=<value>…  change several filters with one refresh
  reset                    clear every filter
  sort <column>            sort the trips table; repeat to flip the order
  show                     render the current dashboard again
  filters                  print the current filters and sort
  quit                     leave the shell`
