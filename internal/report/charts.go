package report

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"github.com/agbru/examstats/internal/dataset"
)

// Size is the pixel size of a rendered chart.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when a Reporter is not given a size.
var DefaultSize = Size{Width: 1024, Height: 768}

// resultColors keeps each result category on the same colour in every chart.
var resultColors = map[dataset.Result]drawing.Color{
	dataset.Distinction: chart.ColorGreen,
	dataset.Pass:        chart.ColorBlue,
	dataset.Fail:        chart.ColorRed,
}

// RenderGenderPie draws the gender share as a pie chart.
func RenderGenderPie(w io.Writer, shares []Share, size Size) error {
	if len(shares) == 0 {
		return errNoData
	}
	values := make([]chart.Value, len(shares))
	for i, s := range shares {
		values[i] = chart.Value{
			Value: float64(s.Count),
			Label: fmt.Sprintf("%s %.1f%%", s.Label, s.Percent),
		}
	}
	pie := chart.PieChart{
		Title:  "Gender distribution",
		Width:  size.Width,
		Height: size.Height,
		Values: values,
	}
	return pie.Render(chart.PNG, w)
}

// RenderEducationBars draws the mean average score per education level.
func RenderEducationBars(w io.Writer, means []GroupMean, size Size) error {
	if len(means) == 0 {
		return errNoData
	}
	bars := make([]chart.Value, len(means))
	top := 0.0
	for i, m := range means {
		bars[i] = chart.Value{Value: m.Mean, Label: m.Label}
		top = math.Max(top, m.Mean)
	}
	bar := chart.BarChart{
		Title:      "Mean average score by parent education level",
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth(size.Width, len(bars)),
		YAxis: chart.YAxis{
			Name:  dataset.ColAverage,
			Range: &chart.ContinuousRange{Min: 0, Max: math.Max(100, math.Ceil(top))},
		},
		Bars: bars,
	}
	return bar.Render(chart.PNG, w)
}

// RenderPrepResultBars draws one 100% stacked bar per preparation status,
// annotated with the number of students behind it.
func RenderPrepResultBars(w io.Writer, rows []PrepResultRow, size Size) error {
	if len(rows) == 0 {
		return errNoData
	}
	bars := make([]chart.StackedBar, 0, len(rows))
	for _, row := range rows {
		values := make([]chart.Value, 0, len(dataset.Results))
		for _, res := range dataset.Results {
			if row.Counts[res] == 0 {
				continue
			}
			color := resultColors[res]
			values = append(values, chart.Value{
				Value: row.Percent[res],
				Label: fmt.Sprintf("%s %.0f%%", res, row.Percent[res]),
				Style: chart.Style{FillColor: color, StrokeColor: color},
			})
		}
		bars = append(bars, chart.StackedBar{
			Name:   fmt.Sprintf("%s (No of Students: %d)", row.Preparation, row.Total),
			Width:  barWidth(size.Width, len(rows)),
			Values: values,
		})
	}
	sbc := chart.StackedBarChart{
		Title:      "Result by test preparation",
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      size.Width,
		Height:     size.Height,
		BarSpacing: 60,
		Bars:       bars,
	}
	return sbc.Render(chart.PNG, w)
}

// RenderScatter plots math against reading with writing mapped onto the
// viridis colour scale.
func RenderScatter(w io.Writer, points []Point, size Size) error {
	if len(points) == 0 {
		return errNoData
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i] = p.Math, p.Reading, p.Writing
	}
	zMin, zMax := floats.Min(zs), floats.Max(zs)

	graph := chart.Chart{
		Title:      "Math vs reading (colour: writing)",
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      size.Width,
		Height:     size.Height,
		XAxis:      chart.XAxis{Name: dataset.ColMath, Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: dataset.ColReading, Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    dataset.ColWriting,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
					DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
						if zMax == zMin {
							return chart.Viridis(0.5, 0, 1)
						}
						return chart.Viridis(zs[index], zMin, zMax)
					},
				},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}

// RenderHistograms draws one panel per histogram, side by side.
func RenderHistograms(w io.Writer, hists []Histogram, size Size) error {
	if len(hists) == 0 {
		return errNoData
	}
	panel := Size{Width: size.Width / len(hists), Height: size.Height}
	canvas := image.NewRGBA(image.Rect(0, 0, panel.Width*len(hists), panel.Height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for i, h := range hists {
		img, err := histogramPanel(h, panel)
		if err != nil {
			return fmt.Errorf("histogram %s: %w", h.Column, err)
		}
		offset := image.Pt(i*panel.Width, 0)
		draw.Draw(canvas, img.Bounds().Add(offset), img, img.Bounds().Min, draw.Over)
	}
	return png.Encode(w, canvas)
}

func histogramPanel(h Histogram, size Size) (image.Image, error) {
	centers := h.Centers()
	top := floats.Max(h.Counts)
	if len(h.KDEY) > 0 {
		top = math.Max(top, floats.Max(h.KDEY))
	}
	if top == 0 {
		top = 1
	}

	series := []chart.Series{
		chart.HistogramSeries{
			Name: h.Column,
			Style: chart.Style{
				FillColor:   chart.ColorBlue.WithAlpha(120),
				StrokeColor: chart.ColorBlue,
			},
			InnerSeries: chart.ContinuousSeries{XValues: centers, YValues: h.Counts},
		},
	}
	if len(h.KDEX) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "kde",
			XValues: h.KDEX,
			YValues: h.KDEY,
			Style:   chart.Style{StrokeColor: chart.ColorOrange, StrokeWidth: 2},
		})
	}

	graph := chart.Chart{
		Title:      h.Column,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10}},
		Width:      size.Width,
		Height:     size.Height,
		XAxis: chart.XAxis{
			Name:  h.Column,
			Range: &chart.ContinuousRange{Min: h.Edges[0], Max: h.Edges[len(h.Edges)-1]},
		},
		YAxis: chart.YAxis{
			Name:  "count",
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// paddedRange spans the values with one unit of headroom on each side.
func paddedRange(values []float64) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: floats.Min(values) - 1, Max: floats.Max(values) + 1}
}

func barWidth(width, bars int) int {
	if bars < 1 {
		return 50
	}
	w := width / (bars * 2)
	if w > 120 {
		w = 120
	}
	if w < 10 {
		w = 10
	}
	return w
}
