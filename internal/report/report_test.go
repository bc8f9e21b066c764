package report

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/agbru/examstats/internal/dataset"
)

func rec(gender, education, prep string, m, r, w int) dataset.Record {
	out := dataset.Record{
		Gender:          gender,
		ParentEducation: education,
		TestPreparation: prep,
		Math:            m,
		Reading:         r,
		Writing:         w,
	}
	out.Enrich()
	return out
}

// fixture averages: 80 Distinction, 60 Pass, 50 Fail, 45 Fail, 76 Distinction.
func fixture() []dataset.Record {
	return []dataset.Record{
		rec("female", "college", "completed", 90, 80, 70),
		rec("female", "college", "none", 60, 60, 60),
		rec("male", "high school", "none", 50, 50, 50),
		rec("female", "high school", "none", 40, 45, 50),
		rec("male", "master's degree", "completed", 76, 76, 76),
	}
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestGenderShare(t *testing.T) {
	t.Parallel()
	want := []Share{
		{Label: "female", Count: 3, Percent: 60},
		{Label: "male", Count: 2, Percent: 40},
	}
	if diff := cmp.Diff(want, GenderShare(fixture()), approx); diff != "" {
		t.Errorf("GenderShare mismatch (-want +got):\n%s", diff)
	}
	if got := GenderShare(nil); len(got) != 0 {
		t.Errorf("GenderShare(nil) = %v, want empty", got)
	}
}

func TestGenderShare_TiesOrderedByLabel(t *testing.T) {
	t.Parallel()
	recs := []dataset.Record{rec("male", "", "", 1, 1, 1), rec("female", "", "", 1, 1, 1)}
	got := GenderShare(recs)
	if got[0].Label != "female" || got[1].Label != "male" {
		t.Errorf("tie order = %v, want female before male", got)
	}
}

func TestMeanByEducation(t *testing.T) {
	t.Parallel()
	want := []GroupMean{
		{Label: "college", Count: 2, Mean: 70},
		{Label: "high school", Count: 2, Mean: 47.5},
		{Label: "master's degree", Count: 1, Mean: 76},
	}
	if diff := cmp.Diff(want, MeanByEducation(fixture()), approx); diff != "" {
		t.Errorf("MeanByEducation mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepResult(t *testing.T) {
	t.Parallel()
	want := []PrepResultRow{
		{
			Preparation: "completed",
			Counts:      map[dataset.Result]int{dataset.Distinction: 2},
			Percent:     map[dataset.Result]float64{dataset.Distinction: 100, dataset.Pass: 0, dataset.Fail: 0},
			Total:       2,
		},
		{
			Preparation: "none",
			Counts:      map[dataset.Result]int{dataset.Pass: 1, dataset.Fail: 2},
			Percent:     map[dataset.Result]float64{dataset.Distinction: 0, dataset.Pass: 100.0 / 3, dataset.Fail: 200.0 / 3},
			Total:       3,
		},
	}
	if diff := cmp.Diff(want, PrepResult(fixture()), approx); diff != "" {
		t.Errorf("PrepResult mismatch (-want +got):\n%s", diff)
	}
}

func TestScoreScatter(t *testing.T) {
	t.Parallel()
	got := ScoreScatter(fixture()[:2])
	want := []Point{{Math: 90, Reading: 80, Writing: 70}, {Math: 60, Reading: 60, Writing: 60}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ScoreScatter mismatch (-want +got):\n%s", diff)
	}
}

func TestSkewnessAndKurtosis(t *testing.T) {
	t.Parallel()
	var recs []dataset.Record
	for _, v := range []int{10, 20, 30, 40, 50} {
		recs = append(recs, rec("female", "college", "none", v, v, v))
	}

	for _, s := range Skewness(recs) {
		if math.Abs(s.Value) > 1e-9 {
			t.Errorf("skew(%s) = %v, want 0 for a symmetric sample", s.Column, s.Value)
		}
	}
	for _, k := range Kurtosis(recs) {
		if math.Abs(k.Value-(-1.2)) > 1e-9 {
			t.Errorf("kurtosis(%s) = %v, want -1.2", k.Column, k.Value)
		}
	}

	if got := Skewness(recs[:2]); !math.IsNaN(got[0].Value) {
		t.Errorf("skew of two points = %v, want NaN", got[0].Value)
	}
}

func TestCorrelation(t *testing.T) {
	t.Parallel()
	m := Correlation(fixture())
	if diff := cmp.Diff(dataset.NumericColumns, m.Columns); diff != "" {
		t.Fatalf("columns mismatch:\n%s", diff)
	}
	for i := range m.Columns {
		if math.Abs(m.At(i, i)-1) > 1e-9 {
			t.Errorf("diagonal %s = %v, want 1", m.Columns[i], m.At(i, i))
		}
		for j := range m.Columns {
			if m.At(i, j) != m.At(j, i) {
				t.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
		}
	}
	// total and average are an exact linear function of each other up to rounding.
	if v := m.At(3, 4); v < 0.999 {
		t.Errorf("corr(total, average) = %v, want ~1", v)
	}

	constant := []dataset.Record{rec("f", "", "", 5, 1, 1), rec("f", "", "", 5, 2, 2)}
	if v := Correlation(constant).At(0, 1); !math.IsNaN(v) {
		t.Errorf("correlation with a constant column = %v, want NaN", v)
	}
}

func TestBuildHistogram(t *testing.T) {
	t.Parallel()
	values := []float64{0, 10, 10, 20, 50, 100}
	h := BuildHistogram(dataset.ColMath, values, HistogramBins)

	if len(h.Edges) != HistogramBins+1 || len(h.Counts) != HistogramBins {
		t.Fatalf("edges=%d counts=%d", len(h.Edges), len(h.Counts))
	}
	if h.Edges[0] != 0 || h.Edges[HistogramBins] != 100 {
		t.Errorf("edges span [%v, %v], want [0, 100]", h.Edges[0], h.Edges[HistogramBins])
	}
	var total float64
	for _, c := range h.Counts {
		total += c
	}
	if total != float64(len(values)) {
		t.Errorf("histogram holds %v values, want %d", total, len(values))
	}
	if h.Counts[HistogramBins-1] != 1 {
		t.Errorf("maximum should land in the last bin, counts = %v", h.Counts)
	}
	if len(h.KDEX) != kdePoints || len(h.KDEY) != kdePoints {
		t.Errorf("kde has %d/%d points, want %d", len(h.KDEX), len(h.KDEY), kdePoints)
	}
	for _, y := range h.KDEY {
		if y < 0 || math.IsNaN(y) {
			t.Fatalf("kde value %v out of range", y)
		}
	}
}

func TestBuildHistogram_Degenerate(t *testing.T) {
	t.Parallel()
	h := BuildHistogram("x", []float64{7, 7, 7}, 4)
	if h.Counts[0]+h.Counts[1]+h.Counts[2]+h.Counts[3] != 3 {
		t.Errorf("counts = %v, want 3 values binned", h.Counts)
	}
	if len(h.KDEY) != 0 {
		t.Error("a sample without spread should have no kde")
	}
	if empty := BuildHistogram("x", nil, 0); len(empty.Counts) != 1 || len(empty.Edges) != 2 {
		t.Errorf("empty histogram = %+v", empty)
	}
}

func decodes(t *testing.T, name string, render func(*bytes.Buffer) error) {
	t.Helper()
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("%s: render error = %v", name, err)
	}
	if buf.Len() == 0 {
		t.Fatalf("%s: empty output", name)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("%s: output is not a PNG: %v", name, err)
	}
}

func TestRenderers_ProducePNG(t *testing.T) {
	t.Parallel()
	recs := fixture()
	size := Size{Width: 640, Height: 480}

	tests := []struct {
		name   string
		render func(*bytes.Buffer) error
	}{
		{"pie", func(b *bytes.Buffer) error { return RenderGenderPie(b, GenderShare(recs), size) }},
		{"bar", func(b *bytes.Buffer) error { return RenderEducationBars(b, MeanByEducation(recs), size) }},
		{"stacked", func(b *bytes.Buffer) error { return RenderPrepResultBars(b, PrepResult(recs), size) }},
		{"scatter", func(b *bytes.Buffer) error { return RenderScatter(b, ScoreScatter(recs), size) }},
		{"heatmap", func(b *bytes.Buffer) error { return RenderHeatmap(b, Correlation(recs)) }},
		{"histogram", func(b *bytes.Buffer) error {
			hists := []Histogram{
				BuildHistogram(dataset.ColMath, Column(recs, dataset.ColMath), HistogramBins),
				BuildHistogram(dataset.ColReading, Column(recs, dataset.ColReading), HistogramBins),
			}
			return RenderHistograms(b, hists, size)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			decodes(t, tt.name, tt.render)
		})
	}
}

func TestRenderers_RejectEmptyInput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	for name, err := range map[string]error{
		"pie":       RenderGenderPie(&buf, nil, DefaultSize),
		"bar":       RenderEducationBars(&buf, nil, DefaultSize),
		"stacked":   RenderPrepResultBars(&buf, nil, DefaultSize),
		"scatter":   RenderScatter(&buf, nil, DefaultSize),
		"heatmap":   RenderHeatmap(&buf, Matrix{}),
		"histogram": RenderHistograms(&buf, nil, DefaultSize),
	} {
		if !errors.Is(err, errNoData) {
			t.Errorf("%s: error = %v, want errNoData", name, err)
		}
	}
}

type chartLog struct {
	mu    sync.Mutex
	names []string
}

func (c *chartLog) ObserveChart(name string, _ time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.names = append(c.names, name)
	}
}

func TestReporter_RenderAll(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "charts")
	log := &chartLog{}
	r := New(dir, WithWorkers(3), WithSize(Size{Width: 480, Height: 360}), WithRecorder(log))

	artifacts, err := r.RenderAll(context.Background(), fixture())
	if err != nil {
		t.Fatalf("RenderAll() error = %v", err)
	}

	wantFiles := []string{FilePie, FileBar, FileScatter, FileStacked, FileHeatmap, FileHistogram}
	if len(artifacts) != len(wantFiles) {
		t.Fatalf("got %d artifacts, want %d", len(artifacts), len(wantFiles))
	}
	for i, a := range artifacts {
		if filepath.Base(a.Path) != wantFiles[i] {
			t.Errorf("artifact %d = %s, want %s", i, filepath.Base(a.Path), wantFiles[i])
		}
		f, err := os.Open(a.Path)
		if err != nil {
			t.Fatalf("artifact %s missing: %v", a.Path, err)
		}
		_, err = png.Decode(f)
		f.Close()
		if err != nil {
			t.Errorf("artifact %s is not a PNG: %v", a.Path, err)
		}
		if a.Bytes == 0 {
			t.Errorf("artifact %s reports zero bytes", a.Path)
		}
	}
	if len(log.names) != len(wantFiles) {
		t.Errorf("recorder saw %d charts, want %d", len(log.names), len(wantFiles))
	}
}

func TestReporter_RenderAllCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(t.TempDir()).RenderAll(ctx, fixture())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderAll() error = %v, want context.Canceled", err)
	}
}

func TestReporter_RenderAllEmpty(t *testing.T) {
	t.Parallel()
	if _, err := New(t.TempDir()).RenderAll(context.Background(), nil); !errors.Is(err, errNoData) {
		t.Errorf("RenderAll(nil) error = %v, want errNoData", err)
	}
}
