package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HistogramBins is the number of bins used for the score histograms.
const HistogramBins = 20

// kdePoints is the resolution of the density curve.
const kdePoints = 100

// Histogram is a binned distribution with a Gaussian KDE scaled to counts.
type Histogram struct {
	Column string
	// Edges has len(Counts)+1 entries.
	Edges  []float64
	Counts []float64
	// KDEX and KDEY trace the density curve; both are empty when the sample
	// is too small or has no spread.
	KDEX []float64
	KDEY []float64
}

// BinWidth returns the width of a single bin.
func (h Histogram) BinWidth() float64 {
	if len(h.Edges) < 2 {
		return 0
	}
	return h.Edges[1] - h.Edges[0]
}

// Centers returns the midpoint of every bin.
func (h Histogram) Centers() []float64 {
	centers := make([]float64, len(h.Counts))
	for i := range centers {
		centers[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return centers
}

// BuildHistogram bins values into equal-width bins spanning their range and
// overlays a Gaussian KDE with Scott's bandwidth.
func BuildHistogram(column string, values []float64, bins int) Histogram {
	if bins < 1 {
		bins = 1
	}
	h := Histogram{Column: column, Counts: make([]float64, bins)}
	if len(values) == 0 {
		h.Edges = floats.Span(make([]float64, bins+1), 0, 1)
		return h
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	h.Edges = floats.Span(make([]float64, bins+1), lo, hi)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	// The top edge is inclusive so the maximum lands in the last bin.
	h.Edges[bins] = math.Nextafter(hi, math.Inf(1))
	stat.Histogram(h.Counts, h.Edges, sorted, nil)
	h.Edges[bins] = hi

	h.KDEX, h.KDEY = gaussianKDE(values, lo, hi, float64(len(values))*h.BinWidth())
	return h
}

// gaussianKDE evaluates a Gaussian kernel density estimate on an even grid
// over [lo, hi], multiplied by scale.
func gaussianKDE(values []float64, lo, hi, scale float64) ([]float64, []float64) {
	n := float64(len(values))
	if n < 2 {
		return nil, nil
	}
	sd := stat.StdDev(values, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, nil
	}
	bw := sd * math.Pow(n, -0.2)

	xs := floats.Span(make([]float64, kdePoints), lo, hi)
	ys := make([]float64, kdePoints)
	norm := scale / (n * bw * math.Sqrt(2*math.Pi))
	for i, x := range xs {
		var sum float64
		for _, v := range values {
			z := (x - v) / bw
			sum += math.Exp(-0.5 * z * z)
		}
		ys[i] = sum * norm
	}
	return xs, ys
}
