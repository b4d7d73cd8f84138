// Copyright 2026 The Tripdash Authors
// SPDX-License-Identifier: MIT

// Package session holds the interactive dashboard state: the current filter
// and sort selections, the refresh each user action triggers, and the board
// that decides which results are still fresh enough to show.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/davetashner/tripdash/internal/filter"
	"github.com/davetashner/tripdash/internal/pipeline"
	"github.com/davetashner/tripdash/internal/tablesort"
)

// Runner performs refreshes. *pipeline.Orchestrator implements it.
type Runner interface {
	Refresh(ctx context.Context, snap pipeline.Snapshot) (*pipeline.Dashboard, error)
	RefreshTrips(ctx context.Context, snap pipeline.Snapshot) (*pipeline.Dashboard, error)
	Current(d *pipeline.Dashboard) (full, trips bool)
}

var _ Runner = (*pipeline.Orchestrator)(nil)

// Action is the refresh requested by a user action, with the filter and
// sort configuration captured when the action happened.
type Action struct {
	Scope    pipeline.Scope
	Snapshot pipeline.Snapshot
}

// Session owns the mutable filter and sort state. Every handler captures an
// immutable snapshot into the Action it returns, so a refresh never sees
// later edits.
type Session struct {
	runner Runner

	mu     sync.Mutex
	filter filter.State
	sort   tablesort.State
}

// New creates a session with the given initial filters and the initial
// sort (pickup time, descending).
func New(r Runner, initial filter.State) *Session {
	return &Session{
		runner: r,
		filter: initial,
		sort:   tablesort.Initial(),
	}
}

// Filter returns the current filter state.
func (s *Session) Filter() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Sort returns the current sort state.
func (s *Session) Sort() tablesort.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// Snapshot returns the current configuration.
func (s *Session) Snapshot() pipeline.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Load requests a full refresh of the current state without changing it.
func (s *Session) Load() Action {
	return s.update(pipeline.ScopeFull, nil)
}

// Apply replaces the filters and requests a full refresh.
func (s *Session) Apply(f filter.State) Action {
	return s.update(pipeline.ScopeFull, func() { s.filter = f })
}

// Set changes one filter field by query key and requests a full refresh.
// An empty value clears the field.
func (s *Session) Set(key, value string) (Action, error) {
	fld, ok := filter.Lookup(key)
	if !ok {
		return Action{}, fmt.Errorf("unknown filter %q (valid: %s)", key, filterKeys())
	}
	return s.update(pipeline.ScopeFull, func() { fld.Set(&s.filter, strings.TrimSpace(value)) }), nil
}

// Reset clears every filter field and requests a full refresh. The sort
// selection is kept.
func (s *Session) Reset() Action {
	return s.update(pipeline.ScopeFull, func() { s.filter = filter.State{} })
}

// ClickSort applies a header click on column and requests a trips-only
// refresh. Clicking the active column flips the direction; any other
// column becomes active in descending order.
func (s *Session) ClickSort(column string) (Action, error) {
	if !tablesort.Valid(column) {
		return Action{}, fmt.Errorf("unknown sort column %q (valid: %s)", column, strings.Join(tablesort.Columns, ", "))
	}
	return s.update(pipeline.ScopeTrips, func() { s.sort = s.sort.Toggle(column) }), nil
}

// Run performs the refresh a requests.
func (s *Session) Run(ctx context.Context, a Action) (*pipeline.Dashboard, error) {
	switch a.Scope {
	case pipeline.ScopeFull:
		return s.runner.Refresh(ctx, a.Snapshot)
	case pipeline.ScopeTrips:
		return s.runner.RefreshTrips(ctx, a.Snapshot)
	default:
		return nil, fmt.Errorf("unknown refresh scope %q", a.Scope)
	}
}

// update applies change and captures the resulting snapshot under one lock.
func (s *Session) update(scope pipeline.Scope, change func()) Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	if change != nil {
		change()
	}
	return Action{Scope: scope, Snapshot: s.snapshotLocked()}
}

func (s *Session) snapshotLocked() pipeline.Snapshot {
	return pipeline.Snapshot{Filter: s.filter, Sort: s.sort}
}

func filterKeys() string {
	keys := make([]string, 0, len(filter.Fields()))
	for _, f := range filter.Fields() {
		keys = append(keys, f.Key)
	}
	return strings.Join(keys, ", ")
}
