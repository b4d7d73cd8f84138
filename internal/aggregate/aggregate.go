// Package aggregate defines the payloads returned by the trip aggregate API.
package aggregate

// Summary is the KPI aggregate for the current filters.
type Summary struct {
	Trips       Number `json:"trips"`
	Revenue     Number `json:"revenue"`
	AvgDistance Number `json:"avg_distance"`
	AvgSpeed    Number `json:"avg_speed"`
}

// HourlyPoint is the trip count for one hour of day (0-23).
type HourlyPoint struct {
	Hour  int `json:"hour"`
	Trips int `json:"trips"`
}

// ZoneAggregate is one entry of the top pickup zones, ordered by trips
// descending.
type ZoneAggregate struct {
	LocationID int    `json:"location_id,omitempty"`
	Zone       string `json:"zone"`
	Borough    string `json:"borough"`
	Trips      int    `json:"trips"`
}

// RouteAggregate is one entry of the top pickup/drop-off pairs, ordered by
// trip count descending.
type RouteAggregate struct {
	PULocationID int `json:"pu_location_id"`
	DOLocationID int `json:"do_location_id"`
	TripCount    int `json:"trip_count"`
}

// TripRecord is one row of the trips table.
type TripRecord struct {
	PickupDatetime string  `json:"pickup_datetime"`
	TripDistance   float64 `json:"trip_distance"`
	FareAmount     float64 `json:"fare_amount"`
	TotalAmount    float64 `json:"total_amount"`
	DurationMin    float64 `json:"duration_min"`
	PaymentType    int     `json:"payment_type,omitempty"`
	PUZone         string  `json:"pu_zone"`
	DOZone         string  `json:"do_zone"`
	PUBorough      string  `json:"pu_borough"`
	DOBorough      string  `json:"do_borough"`
}

// BoroughCount is the busiest pickup borough.
type BoroughCount struct {
	Borough string `json:"borough"`
	Trips   Number `json:"trips"`
}

// PeakHour is the busiest pickup hour.
type PeakHour struct {
	PickupHour Number `json:"pickup_hour"`
	Trips      Number `json:"trips"`
}

// TipBehavior is the average tip percentage for one payment type.
type TipBehavior struct {
	PaymentType Number `json:"payment_type"`
	AvgTipPct   Number `json:"avg_tip_pct"`
}

// InsightsRaw holds the raw inputs of the narrative insights. A nil or
// empty field means the value could not be computed for the current
// filters; it is not an error.
type InsightsRaw struct {
	TopPickupBorough     *BoroughCount `json:"top_pickup_borough,omitempty"`
	PeakHour             *PeakHour     `json:"peak_hour,omitempty"`
	TipBehaviorByPayment []TipBehavior `json:"tip_behavior_by_payment,omitempty"`
}

// PaymentTypeOption is a selectable payment type.
type PaymentTypeOption struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// FilterOptions lists the values the filter controls can take.
type FilterOptions struct {
	Boroughs     []string            `json:"boroughs"`
	PaymentTypes []PaymentTypeOption `json:"payment_types"`
	MinDate      string              `json:"min_date"`
	MaxDate      string              `json:"max_date"`
}

// ZoneHeat is the trip count of one zone with its geometry, as served by
// the heatmap endpoint.
type ZoneHeat struct {
	LocationID int       `json:"location_id"`
	Zone       string    `json:"zone"`
	Borough    string    `json:"borough"`
	TripCount  int       `json:"trip_count"`
	BBox       []float64 `json:"bbox"`
	WKT        string    `json:"wkt"`
}

// Health is the API liveness payload.
type Health struct {
	Status string `json:"status"`
}
