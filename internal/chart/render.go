package chart

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/davetashner/tripdash/internal/aggregate"
)

// Default image size in pixels.
const (
	DefaultWidth  = 960
	DefaultHeight = 480
)

// ErrNotEnoughData means a chart has too few points to draw.
var ErrNotEnoughData = errors.New("not enough data to draw")

// Hourly renders the trips-by-hour line chart as PNG.
func Hourly(points []aggregate.HourlyPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, ErrNotEnoughData
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Hour)
		ys[i] = float64(p.Trips)
	}

	c := gochart.Chart{
		Title:  "Trips by Hour",
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Name: "Hour",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.Itoa(int(f))
				}
				return ""
			},
		},
		YAxis: gochart.YAxis{Name: "Trips"},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "Trips by Hour",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: gochart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render hourly chart: %w", err)
	}
	return buf.Bytes(), nil
}

// TopZones renders the top pickup zones bar chart as PNG. Bars are
// labelled "<zone> (<borough>)" in the order given.
func TopZones(zones []aggregate.ZoneAggregate) ([]byte, error) {
	if len(zones) == 0 {
		return nil, ErrNotEnoughData
	}
	bars := make([]gochart.Value, len(zones))
	for i, z := range zones {
		bars[i] = gochart.Value{
			Label: ZoneLabel(z),
			Value: float64(z.Trips),
		}
	}

	c := gochart.BarChart{
		Title:  "Top Pickup Zones",
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		BarWidth: barWidth(len(bars)),
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render zones chart: %w", err)
	}
	return buf.Bytes(), nil
}

// ZoneLabel formats a zone as "<zone> (<borough>)".
func ZoneLabel(z aggregate.ZoneAggregate) string {
	return z.Zone + " (" + z.Borough + ")"
}

func barWidth(n int) int {
	w := (DefaultWidth - 100) / (n * 2)
	if w > 60 {
		w = 60
	}
	if w < 10 {
		w = 10
	}
	return w
}
