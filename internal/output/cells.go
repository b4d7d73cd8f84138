package output

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/davetashner/tripdash/internal/aggregate"
	"github.com/davetashner/tripdash/internal/insight"
)

// KPI is one headline figure.
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// KPIs formats the four summary cards. A nil summary yields N/A values.
func KPIs(s *aggregate.Summary) []KPI {
	var sum aggregate.Summary
	if s != nil {
		sum = *s
	}
	return []KPI{
		{Label: "Total Trips", Value: insight.FormatNumber(sum.Trips)},
		{Label: "Total Revenue", Value: insight.FormatMoney(sum.Revenue.OrNaN())},
		{Label: "Average Distance", Value: withUnit(sum.AvgDistance, "mi")},
		{Label: "Average Speed", Value: withUnit(sum.AvgSpeed, "mph")},
	}
}

func withUnit(n aggregate.Number, unit string) string {
	v, ok := n.Float()
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return insight.NA
	}
	return humanize.FtoaWithDigits(v, 2) + " " + unit
}

// TripHeaders are the trips table column titles.
var TripHeaders = []string{"Pickup", "Distance", "Fare", "Total", "Duration (min)", "Pickup Zone", "Dropoff Zone"}

// TripRow formats one trip record as table cells: distance, fare and total
// to two decimals (fare and total with "$"), duration to one decimal, and
// zones as "<zone> (<borough>)".
func TripRow(r aggregate.TripRecord) []string {
	return []string{
		r.PickupDatetime,
		fixed(r.TripDistance, 2),
		"$" + fixed(r.FareAmount, 2),
		"$" + fixed(r.TotalAmount, 2),
		fixed(r.DurationMin, 1),
		zoneCell(r.PUZone, r.PUBorough),
		zoneCell(r.DOZone, r.DOBorough),
	}
}

// RouteHeaders are the routes table column titles.
var RouteHeaders = []string{"Pickup Location", "Dropoff Location", "Trips"}

// RouteRow formats one route aggregate.
func RouteRow(r aggregate.RouteAggregate) []string {
	return []string{
		strconv.Itoa(r.PULocationID),
		strconv.Itoa(r.DOLocationID),
		humanize.Comma(int64(r.TripCount)),
	}
}

// ZoneHeaders are the top zones table column titles.
var ZoneHeaders = []string{"Zone", "Trips"}

// ZoneRow formats one zone aggregate.
func ZoneRow(z aggregate.ZoneAggregate) []string {
	return []string{zoneCell(z.Zone, z.Borough), humanize.Comma(int64(z.Trips))}
}

// HeatHeaders are the zone heatmap table column titles.
var HeatHeaders = []string{"Location", "Zone", "Trips"}

// HeatRow formats one heatmap row.
func HeatRow(h aggregate.ZoneHeat) []string {
	return []string{strconv.Itoa(h.LocationID), zoneCell(h.Zone, h.Borough), humanize.Comma(int64(h.TripCount))}
}

// HourlyHeaders are the hourly table column titles.
var HourlyHeaders = []string{"Hour", "Trips"}

// HourlyRow formats one hourly point.
func HourlyRow(p aggregate.HourlyPoint) []string {
	return []string{strconv.Itoa(p.Hour), humanize.Comma(int64(p.Trips))}
}

func fixed(v float64, digits int) string {
	return strconv.FormatFloat(v, 'f', digits, 64)
}

func zoneCell(zone, borough string) string {
	return zone + " (" + borough + ")"
}
