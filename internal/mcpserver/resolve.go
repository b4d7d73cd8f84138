// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the trip dashboard as tools over stdio transport.
package mcpserver

import (
	"strings"

	"github.com/davetashner/tripdash/internal/filter"
)

// FilterInput is the filter block shared by the dashboard and trips tools.
type FilterInput struct {
	StartDate   string `json:"start_date,omitempty" jsonschema:"Earliest pickup date, YYYY-MM-DD"`
	EndDate     string `json:"end_date,omitempty" jsonschema:"Latest pickup date, YYYY-MM-DD"`
	Borough     string `json:"borough,omitempty" jsonschema:"Pickup borough, e.g. Manhattan"`
	PaymentType string `json:"payment_type,omitempty" jsonschema:"Payment type id 1-6 (1=Credit card, 2=Cash)"`
	MinDistance string `json:"min_distance,omitempty" jsonschema:"Minimum trip distance in miles"`
	MaxDistance string `json:"max_distance,omitempty" jsonschema:"Maximum trip distance in miles"`
	MinFare     string `json:"min_fare,omitempty" jsonschema:"Minimum fare amount"`
	MaxFare     string `json:"max_fare,omitempty" jsonschema:"Maximum fare amount"`
}

func (in FilterInput) state() filter.State {
	return filter.State{
		StartDate:   strings.TrimSpace(in.StartDate),
		EndDate:     strings.TrimSpace(in.EndDate),
		Borough:     strings.TrimSpace(in.Borough),
		PaymentType: strings.TrimSpace(in.PaymentType),
		MinDistance: strings.TrimSpace(in.MinDistance),
		MaxDistance: strings.TrimSpace(in.MaxDistance),
		MinFare:     strings.TrimSpace(in.MinFare),
		MaxFare:     strings.TrimSpace(in.MaxFare),
	}
}

// ResolveFilters fills unset fields of in from defaults and validates the
// result before any request is made.
func ResolveFilters(in FilterInput, defaults filter.State) (filter.State, error) {
	s := in.state().Merge(defaults)
	if err := s.Validate(); err != nil {
		return filter.State{}, err
	}
	return s, nil
}
