package output

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davetashner/tripdash/internal/aggregate"
)

func TestKPIs(t *testing.T) {
	kpis := KPIs(&aggregate.Summary{
		Trips:       aggregate.Num(1234567),
		Revenue:     aggregate.Num(99.5),
		AvgDistance: aggregate.Num(2.345678),
		AvgSpeed:    aggregate.Num(12),
	})
	assert.Equal(t, []KPI{
		{Label: "Total Trips", Value: "1,234,567"},
		{Label: "Total Revenue", Value: "$99.50"},
		{Label: "Average Distance", Value: "2.35 mi"},
		{Label: "Average Speed", Value: "12 mph"},
	}, kpis)
}

func TestKPIs_MissingValues(t *testing.T) {
	for _, k := range KPIs(nil) {
		assert.Equal(t, "N/A", k.Value, k.Label)
	}
}

func TestTripRow(t *testing.T) {
	row := TripRow(aggregate.TripRecord{
		PickupDatetime: "2024-01-05 08:15:00",
		TripDistance:   1,
		FareAmount:     7.456,
		TotalAmount:    10,
		DurationMin:    9.96,
		PUZone:         "Astoria",
		PUBorough:      "Queens",
		DOZone:         "Midtown Center",
		DOBorough:      "Manhattan",
	})
	assert.Equal(t, []string{
		"2024-01-05 08:15:00", "1.00", "$7.46", "$10.00", "10.0",
		"Astoria (Queens)", "Midtown Center (Manhattan)",
	}, row)
	assert.Len(t, TripHeaders, len(row))
}

func TestRouteAndZoneRows(t *testing.T) {
	assert.Equal(t, []string{"237", "236", "1,400"}, RouteRow(aggregate.RouteAggregate{PULocationID: 237, DOLocationID: 236, TripCount: 1400}))
	assert.Equal(t, []string{"JFK Airport (Queens)", "820"}, ZoneRow(aggregate.ZoneAggregate{Zone: "JFK Airport", Borough: "Queens", Trips: 820}))
	assert.Equal(t, []string{"18", "12,000"}, HourlyRow(aggregate.HourlyPoint{Hour: 18, Trips: 12000}))
	assert.Equal(t, []string{"1", "Newark Airport (EWR)", "3"}, HeatRow(aggregate.ZoneHeat{LocationID: 1, Zone: "Newark Airport", Borough: "EWR", TripCount: 3}))
}
