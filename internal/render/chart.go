package render

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/verte-zerg/agenet/internal/model"
)

// Default PNG dimensions.
const (
	DefaultChartWidth  = 800
	DefaultChartHeight = 500
)

// WritePNG renders the age distribution as a bar chart PNG, one bar per
// age group in canonical order.
func WritePNG(w io.Writer, net model.PurchaseNetwork, width, height int) error {
	if len(net.Buckets) == 0 {
		return fmt.Errorf("network has no age groups to chart")
	}
	if width <= 0 {
		width = DefaultChartWidth
	}
	if height <= 0 {
		height = DefaultChartHeight
	}

	fill := drawing.ColorFromHex("FFA500")
	maxCount := 0
	bars := make([]chart.Value, 0, len(net.Buckets))
	for _, b := range net.Buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d)", b.Label, b.Count),
			Value: float64(b.Count),
			Style: chart.Style{FillColor: fill, StrokeColor: fill},
		})
	}

	barWidth := width / (2*len(bars) + 1)
	if barWidth > 80 {
		barWidth = 80
	}
	graph := chart.BarChart{
		Title:      net.Title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  "Purchases",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount) + 1},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
