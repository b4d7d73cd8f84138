// Copyright 2026 The Tripdash Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"net/url"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, "", Encode(State{}))
}

func TestEncode_AllFieldsInDeclaredOrder(t *testing.T) {
	s := State{
		MaxFare:     "80",
		MinFare:     "5",
		MaxDistance: "20.5",
		MinDistance: "1",
		PaymentType: "1",
		Borough:     "Manhattan",
		EndDate:     "2024-01-31",
		StartDate:   "2024-01-01",
	}
	assert.Equal(t,
		"start_date=2024-01-01&end_date=2024-01-31&borough=Manhattan&payment_type=1&min_distance=1&max_distance=20.5&min_fare=5&max_fare=80",
		Encode(s))
}

func TestEncode_OmitsUnsetFields(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"borough only", State{Borough: "Queens"}, "borough=Queens"},
		{"fare range", State{MinFare: "10", MaxFare: "20"}, "min_fare=10&max_fare=20"},
		{"end date only", State{EndDate: "2024-02-01"}, "end_date=2024-02-01"},
		{"sparse", State{StartDate: "2024-01-01", MaxFare: "9"}, "start_date=2024-01-01&max_fare=9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.state)
			assert.Equal(t, tt.want, got)

			values, err := url.ParseQuery(got)
			require.NoError(t, err)
			for _, f := range Fields() {
				if f.Get(tt.state) == "" {
					assert.NotContains(t, values, f.Key)
				} else {
					assert.Equal(t, f.Get(tt.state), values.Get(f.Key))
				}
			}
		})
	}
}

func TestEncode_PercentEncodesValues(t *testing.T) {
	got := Encode(State{Borough: "Staten Island & co"})
	assert.Equal(t, "borough=Staten+Island+%26+co", got)

	values, err := url.ParseQuery(got)
	require.NoError(t, err)
	assert.Equal(t, "Staten Island & co", values.Get("borough"))
}

func TestEncode_Idempotent(t *testing.T) {
	s := State{StartDate: "2024-01-01", Borough: "Bronx", MinFare: "3.5"}
	assert.Equal(t, Encode(s), Encode(s))
}

func TestFields_DeclaredOrder(t *testing.T) {
	var keys []string
	for _, f := range Fields() {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{
		"start_date", "end_date", "borough", "payment_type",
		"min_distance", "max_distance", "min_fare", "max_fare",
	}, keys)
}

func TestLookup(t *testing.T) {
	f, ok := Lookup("min_fare")
	require.True(t, ok)

	var s State
	f.Set(&s, "12")
	assert.Equal(t, "12", s.MinFare)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestMerge_FillsUnsetOnly(t *testing.T) {
	s := State{Borough: "Brooklyn"}
	got := s.Merge(State{Borough: "Queens", StartDate: "2024-01-01"})
	assert.Equal(t, "Brooklyn", got.Borough)
	assert.Equal(t, "2024-01-01", got.StartDate)
}

func TestIsZero(t *testing.T) {
	assert.True(t, State{}.IsZero())
	assert.False(t, State{MaxFare: "1"}.IsZero())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		wantErr string
	}{
		{"empty", State{}, ""},
		{"valid full", State{StartDate: "2024-01-01", EndDate: "2024-01-31", PaymentType: "2", MinDistance: "1", MaxDistance: "3", MinFare: "0", MaxFare: "10"}, ""},
		{"bad start date", State{StartDate: "01/02/2024"}, "start_date"},
		{"bad end date", State{EndDate: "tomorrow"}, "end_date"},
		{"reversed dates", State{StartDate: "2024-02-01", EndDate: "2024-01-01"}, "is before start_date"},
		{"payment out of range", State{PaymentType: "9"}, "payment_type"},
		{"payment not a number", State{PaymentType: "cash"}, "payment_type"},
		{"distance not a number", State{MinDistance: "far"}, "min_distance"},
		{"fare inverted", State{MinFare: "50", MaxFare: "10"}, "min_fare: 50 exceeds max_fare 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	err := State{StartDate: "x", PaymentType: "0", MaxFare: "y"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")
	assert.Contains(t, err.Error(), "payment_type")
	assert.Contains(t, err.Error(), "max_fare")
}

func TestBindFlags(t *testing.T) {
	var s State
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, &s)

	require.NoError(t, fs.Parse([]string{"--borough", "Queens", "--min-fare=4", "--start-date", "2024-01-01"}))
	assert.Equal(t, "Queens", s.Borough)
	assert.Equal(t, "4", s.MinFare)
	assert.Equal(t, "2024-01-01", s.StartDate)

	changed := Changed(fs, s)
	assert.Equal(t, State{Borough: "Queens", MinFare: "4", StartDate: "2024-01-01"}, changed)
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "max-distance", FlagName("max_distance"))
	assert.Equal(t, "borough", FlagName("borough"))
}
