// Copyright 2026 The Tripdash Authors
// SPDX-License-Identifier: MIT

package insight

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/tripdash/internal/aggregate"
)

func summaryWithTrips(n float64) *aggregate.Summary {
	return &aggregate.Summary{Trips: aggregate.Num(n)}
}

func tip(paymentType, pct float64) aggregate.TipBehavior {
	return aggregate.TipBehavior{PaymentType: aggregate.Num(paymentType), AvgTipPct: aggregate.Num(pct)}
}

func TestDerive_AlwaysThreeRecords(t *testing.T) {
	tests := []struct {
		name    string
		summary *aggregate.Summary
		raw     *aggregate.InsightsRaw
	}{
		{"nil inputs", nil, nil},
		{"empty raw", summaryWithTrips(10), &aggregate.InsightsRaw{}},
		{"full", summaryWithTrips(10), &aggregate.InsightsRaw{
			TopPickupBorough:     &aggregate.BoroughCount{Borough: "Queens", Trips: aggregate.Num(4)},
			PeakHour:             &aggregate.PeakHour{PickupHour: aggregate.Num(7), Trips: aggregate.Num(2)},
			TipBehaviorByPayment: []aggregate.TipBehavior{tip(1, 10)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Derive(tt.summary, tt.raw)
			require.Len(t, recs, 3)
			assert.Equal(t, TitleConcentration, recs[0].Title)
			assert.Equal(t, TitlePeakHour, recs[1].Title)
			assert.Equal(t, TitleTipBehavior, recs[2].Title)
			for _, r := range recs {
				assert.NotEmpty(t, r.Stat)
				assert.NotEmpty(t, r.Detail)
			}
		})
	}
}

func TestDerive_NilInputsAreNoData(t *testing.T) {
	for _, r := range Derive(nil, nil) {
		assert.Equal(t, NoData, r.Stat, r.Title)
	}
}

func TestConcentration(t *testing.T) {
	r := Concentration(&aggregate.BoroughCount{Borough: "Manhattan", Trips: aggregate.Num(4200)}, 10000)
	assert.Equal(t, "Manhattan: 4,200 trips", r.Stat)
	assert.Contains(t, r.Detail, "Manhattan contributes 42.00% of all filtered trips")
	assert.Equal(t, "Using PULocationID mapped to borough, Manhattan contributes 42.00% of all filtered trips.", r.Detail)
}

func TestConcentration_ZeroTotalIsNA(t *testing.T) {
	r := Concentration(&aggregate.BoroughCount{Borough: "Bronx", Trips: aggregate.Num(5)}, 0)
	assert.Contains(t, r.Detail, "contributes N/A of all")
	assert.NotContains(t, r.Detail, "0.00%")
}

func TestConcentration_NoData(t *testing.T) {
	tests := []struct {
		name string
		top  *aggregate.BoroughCount
	}{
		{"absent", nil},
		{"trips not numeric", &aggregate.BoroughCount{Borough: "Queens"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Concentration(tt.top, 100)
			assert.Equal(t, noConcentration, r)
		})
	}
}

func TestPeakHour(t *testing.T) {
	r := PeakHour(&aggregate.PeakHour{PickupHour: aggregate.Num(7), Trips: aggregate.Num(1250)}, 5000)
	assert.Equal(t, "07:00 with 1,250 trips", r.Stat)
	assert.Equal(t, "From pickup_hour, this hour accounts for 25.00% of the currently filtered trips.", r.Detail)

	r = PeakHour(&aggregate.PeakHour{PickupHour: aggregate.Num(18), Trips: aggregate.Num(900)}, 10000)
	assert.Equal(t, "18:00 with 900 trips", r.Stat)
}

func TestPeakHour_ZeroTotalIsNA(t *testing.T) {
	r := PeakHour(&aggregate.PeakHour{PickupHour: aggregate.Num(0), Trips: aggregate.Num(3)}, 0)
	assert.Equal(t, "00:00 with 3 trips", r.Stat)
	assert.Contains(t, r.Detail, "accounts for N/A of")
}

func TestPeakHour_NoData(t *testing.T) {
	tests := []struct {
		name string
		peak *aggregate.PeakHour
	}{
		{"absent", nil},
		{"hour missing", &aggregate.PeakHour{Trips: aggregate.Num(3)}},
		{"trips missing", &aggregate.PeakHour{PickupHour: aggregate.Num(3)}},
		{"hour out of range", &aggregate.PeakHour{PickupHour: aggregate.Num(24), Trips: aggregate.Num(3)}},
		{"hour fractional", &aggregate.PeakHour{PickupHour: aggregate.Num(3.5), Trips: aggregate.Num(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, noPeakHour, PeakHour(tt.peak, 10))
		})
	}
}

func TestTipBehavior_Gap(t *testing.T) {
	r := TipBehavior([]aggregate.TipBehavior{tip(1, 18.5), tip(2, 12.0)})
	assert.Equal(t, "Credit vs Cash gap: 6.50%", r.Stat)
	assert.Equal(t, "payment_type shows 18.50% average tip for Credit card versus 12.00% for Cash.", r.Detail)
}

func TestTipBehavior_LooksUpByValueNotPosition(t *testing.T) {
	r := TipBehavior([]aggregate.TipBehavior{tip(3, 0), tip(2, 1.25), tip(4, 9), tip(1, 20)})
	assert.Equal(t, "Credit vs Cash gap: 18.75%", r.Stat)
}

func TestTipBehavior_NegativeGap(t *testing.T) {
	r := TipBehavior([]aggregate.TipBehavior{tip(2, 15), tip(1, 10)})
	assert.Equal(t, "Credit vs Cash gap: -5.00%", r.Stat)
}

func TestTipBehavior_GapWithMalformedPct(t *testing.T) {
	rows := []aggregate.TipBehavior{
		{PaymentType: aggregate.Num(1)},
		tip(2, 12),
	}
	r := TipBehavior(rows)
	assert.Equal(t, "Credit vs Cash gap: N/A", r.Stat)
	assert.Contains(t, r.Detail, "N/A average tip for Credit card")
}

func TestTipBehavior_FallbackSummary(t *testing.T) {
	rows := []aggregate.TipBehavior{tip(1, 21), tip(4, 3.333), tip(7, 0), tip(3, 1)}
	r := TipBehavior(rows)
	assert.Equal(t, "Top tip pattern", r.Stat)
	assert.Equal(t, "Credit card: 21.00% | Dispute: 3.33% | Type 7: 0.00%", r.Detail)
}

func TestTipBehavior_FallbackFewerThanThree(t *testing.T) {
	r := TipBehavior([]aggregate.TipBehavior{tip(2, 0.5)})
	assert.Equal(t, "Top tip pattern", r.Stat)
	assert.Equal(t, "Cash: 0.50%", r.Detail)
}

func TestTipBehavior_Empty(t *testing.T) {
	r := TipBehavior(nil)
	assert.Equal(t, noTipBehavior, r)
	assert.Equal(t, NoData, r.Stat)
	assert.NotEmpty(t, r.Detail)

	assert.Equal(t, noTipBehavior, TipBehavior([]aggregate.TipBehavior{}))
}

func TestDerive_UsesSummaryTotal(t *testing.T) {
	raw := &aggregate.InsightsRaw{
		TopPickupBorough: &aggregate.BoroughCount{Borough: "Manhattan", Trips: aggregate.Num(4200)},
	}
	recs := Derive(summaryWithTrips(10000), raw)
	assert.Contains(t, recs[0].Detail, "Manhattan contributes 42.00% of all filtered trips")

	recs = Derive(&aggregate.Summary{}, raw)
	assert.Contains(t, recs[0].Detail, "contributes N/A of all")

	recs = Derive(summaryWithTrips(0), raw)
	assert.Contains(t, recs[0].Detail, "contributes N/A of all")
}

func TestShare(t *testing.T) {
	assert.InDelta(t, 42.0, Share(4200, 10000), 1e-9)
	assert.True(t, math.IsNaN(Share(1, 0)))
	assert.True(t, math.IsNaN(Share(1, -3)))
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{4200, "4,200"},
		{1234567, "1,234,567"},
		{-1500, "-1,500"},
		{4200.5, "4,200.5"},
		{math.NaN(), "N/A"},
		{math.Inf(1), "N/A"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatInt(tt.in))
	}
}

func TestFormatPct(t *testing.T) {
	assert.Equal(t, "42.00%", FormatPct(42))
	assert.Equal(t, "6.50%", FormatPct(6.5))
	assert.Equal(t, "0.00%", FormatPct(0))
	assert.Equal(t, "33.33%", FormatPct(100.0/3))
	assert.Equal(t, "N/A", FormatPct(math.NaN()))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$254,321.50", FormatMoney(254321.5))
	assert.Equal(t, "-$3.00", FormatMoney(-3))
	assert.Equal(t, "N/A", FormatMoney(math.NaN()))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "10,000", FormatNumber(aggregate.Num(10000)))
	assert.Equal(t, "N/A", FormatNumber(aggregate.Number{}))
}

func TestPaymentLabel(t *testing.T) {
	want := map[int]string{
		1: "Credit card", 2: "Cash", 3: "No charge",
		4: "Dispute", 5: "Unknown", 6: "Voided trip",
		0: "Type 0", 9: "Type 9",
	}
	for id, label := range want {
		assert.Equal(t, label, PaymentLabel(id))
	}
	assert.Equal(t, "Type 1.5", PaymentLabelNumber(aggregate.Num(1.5)))
	assert.Equal(t, "Type N/A", PaymentLabelNumber(aggregate.Number{}))
}
