// Package apitest provides a fake aggregate API for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/davetashner/tripdash/internal/aggregate"
)

// Request is a request received by the fake server.
type Request struct {
	Path      string
	RawQuery  string
	Query     url.Values
	RequestID string
}

// Server is an httptest.Server serving canned aggregate payloads. Payloads,
// failures and blocks can be changed per path while the server runs.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]any
	raw       map[string]string
	failures  map[string]int
	gates     map[string]chan struct{}
	requests  []Request
}

// New starts a server preloaded with Fixtures and closes it when the test
// ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		responses: Fixtures(),
		raw:       make(map[string]string),
		failures:  make(map[string]int),
		gates:     make(map[string]chan struct{}),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Path:      r.URL.Path,
		RawQuery:  r.URL.RawQuery,
		Query:     r.URL.Query(),
		RequestID: r.Header.Get("X-Request-ID"),
	})
	gate := s.gates[r.URL.Path]
	status, failing := s.failures[r.URL.Path]
	raw, hasRaw := s.raw[r.URL.Path]
	payload, hasPayload := s.responses[r.URL.Path]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	switch {
	case failing:
		http.Error(w, http.StatusText(status), status)
	case hasRaw:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(raw))
	case hasPayload:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	default:
		http.NotFound(w, r)
	}
}

// Set replaces the JSON payload served for path.
func (s *Server) Set(path string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = v
	delete(s.raw, path)
	delete(s.failures, path)
}

// SetRaw serves body verbatim for path.
func (s *Server) SetRaw(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[path] = body
	delete(s.failures, path)
}

// Fail makes path respond with status.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Block holds every request to path until the returned release func is
// called.
func (s *Server) Block(path string) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.gates[path] = gate
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, path)
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Requests returns all requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsFor returns the requests received for path.
func (s *Server) RequestsFor(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// Fixtures returns the default payload for every endpoint.
func Fixtures() map[string]any {
	return map[string]any{
		"/health": aggregate.Health{Status: "ok"},
		"/filter-options": aggregate.FilterOptions{
			Boroughs: []string{"Bronx", "Brooklyn", "Manhattan", "Queens", "Staten Island"},
			PaymentTypes: []aggregate.PaymentTypeOption{
				{ID: 1, Label: "Credit card"},
				{ID: 2, Label: "Cash"},
				{ID: 3, Label: "No charge"},
				{ID: 4, Label: "Dispute"},
				{ID: 5, Label: "Unknown"},
				{ID: 6, Label: "Voided trip"},
			},
			MinDate: "2024-01-01",
			MaxDate: "2024-01-31",
		},
		"/summary": aggregate.Summary{
			Trips:       aggregate.Num(10000),
			Revenue:     aggregate.Num(254321.5),
			AvgDistance: aggregate.Num(3.12),
			AvgSpeed:    aggregate.Num(11.4),
		},
		"/hourly-trips": []aggregate.HourlyPoint{
			{Hour: 0, Trips: 120},
			{Hour: 8, Trips: 640},
			{Hour: 18, Trips: 900},
			{Hour: 23, Trips: 310},
		},
		"/top-zones": []aggregate.ZoneAggregate{
			{LocationID: 132, Zone: "JFK Airport", Borough: "Queens", Trips: 820},
			{LocationID: 161, Zone: "Midtown Center", Borough: "Manhattan", Trips: 760},
			{LocationID: 237, Zone: "Upper East Side South", Borough: "Manhattan", Trips: 700},
		},
		"/top-routes": []aggregate.RouteAggregate{
			{PULocationID: 237, DOLocationID: 236, TripCount: 140},
			{PULocationID: 236, DOLocationID: 237, TripCount: 121},
		},
		"/trips": []aggregate.TripRecord{
			{
				PickupDatetime: "2024-01-31 23:58:00",
				TripDistance:   2.456,
				FareAmount:     13.5,
				TotalAmount:    19.8,
				DurationMin:    14.25,
				PaymentType:    1,
				PUZone:         "Midtown Center",
				PUBorough:      "Manhattan",
				DOZone:         "Upper East Side South",
				DOBorough:      "Manhattan",
			},
		},
		"/insights": aggregate.InsightsRaw{
			TopPickupBorough: &aggregate.BoroughCount{Borough: "Manhattan", Trips: aggregate.Num(4200)},
			PeakHour:         &aggregate.PeakHour{PickupHour: aggregate.Num(18), Trips: aggregate.Num(900)},
			TipBehaviorByPayment: []aggregate.TipBehavior{
				{PaymentType: aggregate.Num(1), AvgTipPct: aggregate.Num(18.5)},
				{PaymentType: aggregate.Num(2), AvgTipPct: aggregate.Num(12.0)},
			},
		},
		"/zones/heatmap": []aggregate.ZoneHeat{
			{LocationID: 1, Zone: "Newark Airport", Borough: "EWR", TripCount: 3, BBox: []float64{0, 0, 1, 1}, WKT: "POLYGON((0 0,1 0,1 1,0 0))"},
		},
	}
}
