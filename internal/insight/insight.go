// Copyright 2026 The Tripdash Authors
// SPDX-License-Identifier: MIT

// Package insight derives the narrative insight cards from the summary and
// raw insight aggregates. Every derivation is total: missing or malformed
// input degrades to a fixed "No data" record.
package insight

import (
	"fmt"
	"math"
	"strings"

	"github.com/davetashner/tripdash/internal/aggregate"
)

// Record is one insight card.
type Record struct {
	Title  string `json:"title"`
	Stat   string `json:"stat"`
	Detail string `json:"detail"`
}

// NoData is the stat of every fallback record.
const NoData = "No data"

// Card titles.
const (
	TitleConcentration = "Pickup Demand Concentration"
	TitlePeakHour      = "Peak Activity Hour"
	TitleTipBehavior   = "Tip Behavior by Payment Type"
)

// Payment type ids with a dedicated comparison.
const (
	PaymentCredit = 1
	PaymentCash   = 2
)

// maxTipEntries bounds the generic tip pattern summary.
const maxTipEntries = 3

var (
	noConcentration = Record{TitleConcentration, NoData, "Could not compute top pickup borough from current dataset."}
	noPeakHour      = Record{TitlePeakHour, NoData, "Could not compute peak pickup hour from current dataset."}
	noTipBehavior   = Record{TitleTipBehavior, NoData, "Could not compute tip behavior from payment_type and tip_pct."}
)

// Derive returns the concentration, peak hour and tip behavior records, in
// that order. Either argument may be nil.
func Derive(summary *aggregate.Summary, raw *aggregate.InsightsRaw) []Record {
	if raw == nil {
		raw = &aggregate.InsightsRaw{}
	}
	total := totalTrips(summary)
	return []Record{
		Concentration(raw.TopPickupBorough, total),
		PeakHour(raw.PeakHour, total),
		TipBehavior(raw.TipBehaviorByPayment),
	}
}

// totalTrips mirrors the dashboard's reading of summary.trips: anything
// missing or non-numeric counts as zero.
func totalTrips(summary *aggregate.Summary) float64 {
	if summary == nil {
		return 0
	}
	v, ok := summary.Trips.Float()
	if !ok {
		return 0
	}
	return v
}

// Share returns 100*part/total, or NaN when total is not positive.
func Share(part, total float64) float64 {
	if total <= 0 {
		return math.NaN()
	}
	return 100 * part / total
}

// Concentration describes how much of the filtered demand the busiest
// pickup borough accounts for.
func Concentration(top *aggregate.BoroughCount, total float64) Record {
	if top == nil {
		return noConcentration
	}
	trips, ok := top.Trips.Float()
	if !ok {
		return noConcentration
	}
	return Record{
		Title: TitleConcentration,
		Stat:  fmt.Sprintf("%s: %s trips", top.Borough, FormatInt(trips)),
		Detail: fmt.Sprintf("Using PULocationID mapped to borough, %s contributes %s of all filtered trips.",
			top.Borough, FormatPct(Share(trips, total))),
	}
}

// PeakHour describes the busiest pickup hour and its share of trips.
func PeakHour(peak *aggregate.PeakHour, total float64) Record {
	if peak == nil {
		return noPeakHour
	}
	hour, ok := peak.PickupHour.Int()
	if !ok || hour < 0 || hour > 23 {
		return noPeakHour
	}
	trips, ok := peak.Trips.Float()
	if !ok {
		return noPeakHour
	}
	return Record{
		Title: TitlePeakHour,
		Stat:  fmt.Sprintf("%02d:00 with %s trips", hour, FormatInt(trips)),
		Detail: fmt.Sprintf("From pickup_hour, this hour accounts for %s of the currently filtered trips.",
			FormatPct(Share(trips, total))),
	}
}

// TipBehavior compares credit card and cash tipping. When either is
// missing it summarises the first entries in list order instead.
func TipBehavior(rows []aggregate.TipBehavior) Record {
	if len(rows) == 0 {
		return noTipBehavior
	}

	credit, hasCredit := findPayment(rows, PaymentCredit)
	cash, hasCash := findPayment(rows, PaymentCash)
	if hasCredit && hasCash {
		gap := credit.AvgTipPct.OrNaN() - cash.AvgTipPct.OrNaN()
		return Record{
			Title: TitleTipBehavior,
			Stat:  "Credit vs Cash gap: " + FormatPct(gap),
			Detail: fmt.Sprintf("payment_type shows %s average tip for Credit card versus %s for Cash.",
				FormatPct(credit.AvgTipPct.OrNaN()), FormatPct(cash.AvgTipPct.OrNaN())),
		}
	}

	n := min(len(rows), maxTipEntries)
	parts := make([]string, n)
	for i, r := range rows[:n] {
		parts[i] = PaymentLabelNumber(r.PaymentType) + ": " + FormatPct(r.AvgTipPct.OrNaN())
	}
	return Record{
		Title:  TitleTipBehavior,
		Stat:   "Top tip pattern",
		Detail: strings.Join(parts, " | "),
	}
}

// findPayment returns the first entry whose payment type equals id.
func findPayment(rows []aggregate.TipBehavior, id int) (aggregate.TipBehavior, bool) {
	for _, r := range rows {
		if v, ok := r.PaymentType.Int(); ok && v == id {
			return r, true
		}
	}
	return aggregate.TipBehavior{}, false
}
