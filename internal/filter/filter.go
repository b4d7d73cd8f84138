// Copyright 2026 The Tripdash Authors
// SPDX-License-Identifier: MIT

// Package filter holds the dashboard filter state and encodes it into the
// query string understood by the aggregate API.
package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of start_date and end_date.
const DateLayout = "2006-01-02"

// State holds the values of the eight filter dimensions. Every field is a
// raw string as entered by the user; the empty string means unset.
type State struct {
	StartDate   string `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate     string `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	Borough     string `yaml:"borough,omitempty" json:"borough,omitempty"`
	PaymentType string `yaml:"payment_type,omitempty" json:"payment_type,omitempty"`
	MinDistance string `yaml:"min_distance,omitempty" json:"min_distance,omitempty"`
	MaxDistance string `yaml:"max_distance,omitempty" json:"max_distance,omitempty"`
	MinFare     string `yaml:"min_fare,omitempty" json:"min_fare,omitempty"`
	MaxFare     string `yaml:"max_fare,omitempty" json:"max_fare,omitempty"`
}

// Field describes one filter dimension: its query key and an accessor into
// State.
type Field struct {
	Key   string
	Usage string
	ptr   func(*State) *string
}

// Get returns the field's value in s.
func (f Field) Get(s State) string { return *f.ptr(&s) }

// Set stores v into the field of s.
func (f Field) Set(s *State, v string) { *f.ptr(s) = v }

// fields is the declared key order used by Encode.
var fields = []Field{
	{Key: "start_date", Usage: "only trips picked up on or after this date (YYYY-MM-DD)", ptr: func(s *State) *string { return &s.StartDate }},
	{Key: "end_date", Usage: "only trips picked up on or before this date (YYYY-MM-DD)", ptr: func(s *State) *string { return &s.EndDate }},
	{Key: "borough", Usage: "pickup borough", ptr: func(s *State) *string { return &s.Borough }},
	{Key: "payment_type", Usage: "payment type id (1=Credit card, 2=Cash, 3=No charge, 4=Dispute, 5=Unknown, 6=Voided trip)", ptr: func(s *State) *string { return &s.PaymentType }},
	{Key: "min_distance", Usage: "minimum trip distance in miles", ptr: func(s *State) *string { return &s.MinDistance }},
	{Key: "max_distance", Usage: "maximum trip distance in miles", ptr: func(s *State) *string { return &s.MaxDistance }},
	{Key: "min_fare", Usage: "minimum fare amount", ptr: func(s *State) *string { return &s.MinFare }},
	{Key: "max_fare", Usage: "maximum fare amount", ptr: func(s *State) *string { return &s.MaxFare }},
}

// Fields returns the filter dimensions in their declared order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Lookup returns the field with the given query key.
func Lookup(key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Encode converts s into a canonical query string. Unset fields are
// omitted entirely and keys always follow the declared field order.
func Encode(s State) string {
	var b strings.Builder
	for _, f := range fields {
		v := f.Get(s)
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}

// IsZero reports whether no field is set.
func (s State) IsZero() bool {
	return s == State{}
}

// Merge returns s with every unset field filled from fallback.
func (s State) Merge(fallback State) State {
	for _, f := range fields {
		if f.Get(s) == "" {
			f.Set(&s, f.Get(fallback))
		}
	}
	return s
}

// Validate checks the field values and returns all problems at once.
func (s State) Validate() error {
	if errs := s.Problems(); len(errs) > 0 {
		return fmt.Errorf("invalid filters:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Problems lists every invalid field as "<key>: <reason>".
func (s State) Problems() []string {
	var errs []string

	var start, end time.Time
	if s.StartDate != "" {
		t, err := time.Parse(DateLayout, s.StartDate)
		if err != nil {
			errs = append(errs, fmt.Sprintf("start_date: %q is not a YYYY-MM-DD date", s.StartDate))
		}
		start = t
	}
	if s.EndDate != "" {
		t, err := time.Parse(DateLayout, s.EndDate)
		if err != nil {
			errs = append(errs, fmt.Sprintf("end_date: %q is not a YYYY-MM-DD date", s.EndDate))
		}
		end = t
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, fmt.Sprintf("end_date: %s is before start_date %s", s.EndDate, s.StartDate))
	}

	if s.PaymentType != "" {
		id, err := strconv.Atoi(s.PaymentType)
		if err != nil || id < 1 || id > 6 {
			errs = append(errs, fmt.Sprintf("payment_type: must be an integer between 1 and 6, got %q", s.PaymentType))
		}
	}

	errs = append(errs, checkRange("distance", s.MinDistance, s.MaxDistance)...)
	errs = append(errs, checkRange("fare", s.MinFare, s.MaxFare)...)
	return errs
}

func checkRange(name, lo, hi string) []string {
	var errs []string
	minV, minOK := parseNumber(lo)
	maxV, maxOK := parseNumber(hi)
	if lo != "" && !minOK {
		errs = append(errs, fmt.Sprintf("min_%s: %q is not a number", name, lo))
	}
	if hi != "" && !maxOK {
		errs = append(errs, fmt.Sprintf("max_%s: %q is not a number", name, hi))
	}
	if minOK && maxOK && minV > maxV {
		errs = append(errs, fmt.Sprintf("min_%s: %s exceeds max_%s %s", name, lo, name, hi))
	}
	return errs
}

func parseNumber(v string) (float64, bool) {
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
