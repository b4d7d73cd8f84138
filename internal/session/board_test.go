package session

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/tripdash/internal/aggregate"
	"github.com/davetashner/tripdash/internal/api"
	"github.com/davetashner/tripdash/internal/api/apitest"
	"github.com/davetashner/tripdash/internal/filter"
	"github.com/davetashner/tripdash/internal/pipeline"
)

var allTargets = []pipeline.Target{
	pipeline.TargetHourly, pipeline.TargetZones, pipeline.TargetRoutes,
	pipeline.TargetTrips, pipeline.TargetInsights,
}

func newLiveSession(t *testing.T) (*apitest.Server, *Session, *Board) {
	t.Helper()
	srv := apitest.New(t)
	o := pipeline.New(api.New(srv.URL), pipeline.Options{})
	b := NewBoard(o, BoardOptions{})
	t.Cleanup(func() { _ = b.Close() })
	return srv, New(o, filter.State{}), b
}

func TestBoard_CommitFresh(t *testing.T) {
	_, s, b := newLiveSession(t)
	assert.Nil(t, b.View())

	d, err := s.Run(context.Background(), s.Load())
	require.NoError(t, err)
	assert.ElementsMatch(t, allTargets, b.Commit(d))

	v := b.View()
	require.NotNil(t, v)
	assert.Equal(t, d.RequestID, v.RequestID)
	assert.Len(t, v.Trips, 1)
}

func TestBoard_StaleFullRefreshDiscarded(t *testing.T) {
	_, s, b := newLiveSession(t)
	ctx := context.Background()

	older, err := s.Run(ctx, s.Apply(filter.State{Borough: "Bronx"}))
	require.NoError(t, err)
	newer, err := s.Run(ctx, s.Apply(filter.State{Borough: "Queens"}))
	require.NoError(t, err)

	// The newer refresh lands first; the older one must not overwrite it.
	assert.NotEmpty(t, b.Commit(newer))
	assert.Empty(t, b.Commit(older))
	assert.Equal(t, "Queens", b.View().Snapshot.Filter.Borough)
}

func TestBoard_TripsOnlyCommitKeepsOtherViews(t *testing.T) {
	srv, s, b := newLiveSession(t)
	ctx := context.Background()

	full, err := s.Run(ctx, s.Load())
	require.NoError(t, err)
	require.NotEmpty(t, b.Commit(full))

	srv.Set(api.PathTrips, []aggregate.TripRecord{{FareAmount: 1}, {FareAmount: 2}})
	a, err := s.ClickSort("fare")
	require.NoError(t, err)
	tripsOnly, err := s.Run(ctx, a)
	require.NoError(t, err)

	assert.Equal(t, []pipeline.Target{pipeline.TargetTrips}, b.Commit(tripsOnly))

	v := b.View()
	assert.Equal(t, full.RequestID, v.RequestID)
	assert.Equal(t, full.Summary, v.Summary)
	assert.Len(t, v.Trips, 2)
	assert.Equal(t, "fare", v.Snapshot.Sort.Column)
}

func TestBoard_SortChangeOvertakesFullRefreshTrips(t *testing.T) {
	srv, s, b := newLiveSession(t)
	ctx := context.Background()

	full, err := s.Run(ctx, s.Load())
	require.NoError(t, err)

	srv.Set(api.PathTrips, []aggregate.TripRecord{{FareAmount: 9}, {FareAmount: 8}, {FareAmount: 7}})
	a, err := s.ClickSort("fare")
	require.NoError(t, err)
	tripsOnly, err := s.Run(ctx, a)
	require.NoError(t, err)

	// Sorted page arrives before the full refresh that preceded it.
	assert.Equal(t, []pipeline.Target{pipeline.TargetTrips}, b.Commit(tripsOnly))
	updated := b.Commit(full)
	assert.NotContains(t, updated, pipeline.TargetTrips)
	assert.Contains(t, updated, pipeline.TargetHourly)

	v := b.View()
	assert.Len(t, v.Trips, 3)
	assert.Equal(t, "fare", v.Snapshot.Sort.Column)
}

func TestBoard_StaleTripsDiscarded(t *testing.T) {
	_, s, b := newLiveSession(t)
	ctx := context.Background()

	a1, err := s.ClickSort("fare")
	require.NoError(t, err)
	first, err := s.Run(ctx, a1)
	require.NoError(t, err)
	full, err := s.Run(ctx, s.Load())
	require.NoError(t, err)

	require.NotEmpty(t, b.Commit(full))
	assert.Empty(t, b.Commit(first))
}

func TestBoard_FailedTargetStillReported(t *testing.T) {
	srv, s, b := newLiveSession(t)
	srv.Fail(api.PathTopZones, http.StatusInternalServerError)

	d, err := s.Run(context.Background(), s.Load())
	require.NoError(t, err)
	assert.Contains(t, b.Commit(d), pipeline.TargetZones)
	assert.Error(t, b.View().Err(pipeline.TargetZones))
}

func TestBoard_CommitNil(t *testing.T) {
	_, _, b := newLiveSession(t)
	assert.Nil(t, b.Commit(nil))
}

func TestBoard_ChartsRenderedAndReplaced(t *testing.T) {
	srv := apitest.New(t)
	o := pipeline.New(api.New(srv.URL), pipeline.Options{})
	dir := t.TempDir()
	b := NewBoard(o, BoardOptions{Charts: true, ChartsDir: dir})
	s := New(o, filter.State{})
	ctx := context.Background()

	d, err := s.Run(ctx, s.Load())
	require.NoError(t, err)
	b.Commit(d)

	hourly, ok := b.Chart(ChartHourly)
	require.True(t, ok)
	assert.NotEmpty(t, hourly.PNG)
	assert.Equal(t, ChartHourly, hourly.Name)
	_, ok = b.Chart(ChartZones)
	require.True(t, ok)
	_, ok = b.Chart("missing")
	assert.False(t, ok)

	srv.Fail(api.PathHourlyTrips, http.StatusInternalServerError)
	d, err = s.Run(ctx, s.Load())
	require.NoError(t, err)
	b.Commit(d)
	_, ok = b.Chart(ChartHourly)
	assert.False(t, ok)
	_, ok = b.Chart(ChartZones)
	assert.True(t, ok)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, b.Close())
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, b.Commit(d))
}

func TestBoard_ChartReadDuringCommit(t *testing.T) {
	srv := apitest.New(t)
	o := pipeline.New(api.New(srv.URL), pipeline.Options{})
	b := NewBoard(o, BoardOptions{Charts: true, ChartsDir: t.TempDir()})
	t.Cleanup(func() { _ = b.Close() })
	s := New(o, filter.State{})

	d, err := s.Run(context.Background(), s.Load())
	require.NoError(t, err)
	b.Commit(d)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			// Re-committing needs a newer generation each time.
			next, err := s.Run(context.Background(), s.Load())
			if err != nil {
				return
			}
			b.Commit(next)
		}
	}()

	for {
		select {
		case <-done:
			c, ok := b.Chart(ChartHourly)
			require.True(t, ok)
			assert.NotEmpty(t, c.Path)
			assert.NotEmpty(t, c.PNG)
			return
		default:
			if c, ok := b.Chart(ChartHourly); ok {
				assert.NotEmpty(t, c.PNG)
			}
		}
	}
}

func TestBoard_ChartIsDetachedCopy(t *testing.T) {
	srv := apitest.New(t)
	o := pipeline.New(api.New(srv.URL), pipeline.Options{})
	b := NewBoard(o, BoardOptions{Charts: true, ChartsDir: t.TempDir()})
	s := New(o, filter.State{})

	d, err := s.Run(context.Background(), s.Load())
	require.NoError(t, err)
	b.Commit(d)

	c, ok := b.Chart(ChartHourly)
	require.True(t, ok)
	want := append([]byte(nil), c.PNG...)
	require.NoError(t, b.Close())

	// Closing the board releases the image but not the copy.
	assert.Equal(t, want, c.PNG)
	assert.NotEmpty(t, c.Path)
}

// gatedRunner reports every dashboard as current, but holds Current for
// the dashboard with generation gate until release is closed.
type gatedRunner struct {
	gate    uint64
	entered chan struct{}
	release chan struct{}
}

func (g *gatedRunner) Refresh(context.Context, pipeline.Snapshot) (*pipeline.Dashboard, error) {
	return nil, nil
}

func (g *gatedRunner) RefreshTrips(context.Context, pipeline.Snapshot) (*pipeline.Dashboard, error) {
	return nil, nil
}

func (g *gatedRunner) Current(d *pipeline.Dashboard) (full, trips bool) {
	if d.Generation == g.gate {
		close(g.entered)
		<-g.release
	}
	return d.Scope == pipeline.ScopeFull, true
}

func fullDashboard(gen uint64, borough string) *pipeline.Dashboard {
	return &pipeline.Dashboard{
		Scope:           pipeline.ScopeFull,
		Generation:      gen,
		TripsGeneration: gen,
		Snapshot:        pipeline.Snapshot{Filter: filter.State{Borough: borough}},
		Results: []pipeline.TargetResult{
			{Target: pipeline.TargetZones},
			{Target: pipeline.TargetTrips},
		},
	}
}

func TestBoard_OlderCommitPausedInFreshnessCheck(t *testing.T) {
	r := &gatedRunner{gate: 1, entered: make(chan struct{}), release: make(chan struct{})}
	b := NewBoard(r, BoardOptions{})

	olderDone := make(chan []pipeline.Target)
	go func() { olderDone <- b.Commit(fullDashboard(1, "Bronx")) }()
	<-r.entered

	newerDone := make(chan []pipeline.Target)
	go func() { newerDone <- b.Commit(fullDashboard(2, "Queens")) }()

	close(r.release)
	<-olderDone
	assert.NotEmpty(t, <-newerDone)
	assert.Equal(t, "Queens", b.View().Snapshot.Filter.Borough)
	assert.Equal(t, uint64(2), b.View().TripsGeneration)
}

func TestBoard_NeverRegressesGeneration(t *testing.T) {
	r := &gatedRunner{}
	b := NewBoard(r, BoardOptions{})

	assert.NotEmpty(t, b.Commit(fullDashboard(3, "Queens")))
	assert.Empty(t, b.Commit(fullDashboard(2, "Bronx")))
	assert.Empty(t, b.Commit(fullDashboard(3, "Bronx")))

	trips := &pipeline.Dashboard{
		Scope:           pipeline.ScopeTrips,
		Generation:      3,
		TripsGeneration: 2,
		Results:         []pipeline.TargetResult{{Target: pipeline.TargetTrips}},
	}
	assert.Empty(t, b.Commit(trips))
	assert.Equal(t, "Queens", b.View().Snapshot.Filter.Borough)
	assert.Equal(t, uint64(3), b.View().TripsGeneration)
}
