package plot

import (
	"math"

	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Metric picks the value a bar shows for a group.
type Metric func(models.GroupTotal) float64

func Bandwidth(g models.GroupTotal) float64 { return g.Bandwidth }

func Customers(g models.GroupTotal) float64 { return float64(g.Count) }

type dataBreakdownForGraph struct {
	labels    []string
	yValues   []float64
	nameYAxis string
	nameGraph string
}

func NewDataBreakdownForGraph(b models.Breakdown, metric Metric, nameYAxis, nameGraph string) dataBreakdownForGraph {
	d := dataBreakdownForGraph{nameYAxis: nameYAxis, nameGraph: nameGraph}
	for _, g := range b {
		d.labels = append(d.labels, g.Key)
		d.yValues = append(d.yValues, metric(g))
	}
	return d
}

func (d dataBreakdownForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataBreakdownForGraph) getNameYAxis() string {
	return d.nameYAxis
}
func (d dataBreakdownForGraph) getYValues() []float64 {
	return d.yValues
}

func (d dataBreakdownForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	if len(d.yValues) == 0 || minBarWidth <= 0 {
		return 0, 0
	}
	x := 1.1
	if len(d.labels) < 2 {
		x = 10.0
	} else if len(d.labels) < 10 {
		x = 3.0
	}

	const (
		paddingY     = 100
		spacingRatio = 0.2
		aspectRatio  = 9.0 / 16.0
	)

	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(len(d.labels)) + paddingY
	width = int(totalWidth*x) + paddingY
	height = int(float64(width) * aspectRatio)
	return width, height
}

func (d dataBreakdownForGraph) generateBarValues() []chart.Value {
	bars := make([]chart.Value, 0, len(d.labels))
	for i, label := range d.labels {
		bars = append(bars, chart.Value{
			Value: d.yValues[i],
			Label: label,
			Style: chart.Style{
				FillColor: drawing.ColorBlue.WithAlpha(160),
			},
		})
	}
	return bars
}

// generateGrid returns evenly spaced ticks from zero to just above the tallest bar.
func (d dataBreakdownForGraph) generateGrid() []chart.Tick {
	var ticks []chart.Tick
	max := findMaxValue(d.yValues)
	gridStep := calculateGridStep(max)
	if gridStep <= 0 {
		return nil
	}
	top := math.Ceil(max/gridStep) * gridStep
	for i := 0; float64(i)*gridStep <= top+gridStep/2; i++ {
		v := float64(i) * gridStep
		ticks = append(ticks, chart.Tick{Value: v, Label: formatAxis(v)})
	}
	return ticks
}
