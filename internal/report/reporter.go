package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/examstats/internal/dataset"
	"github.com/agbru/examstats/internal/logging"
)

// Chart artifact file names.
const (
	FilePie       = "piechart.png"
	FileBar       = "bargraph.png"
	FileScatter   = "Scatter.png"
	FileStacked   = "Stackedbar.png"
	FileHeatmap   = "Heatmap.png"
	FileHistogram = "histogram.png"
)

var errNoData = errors.New("no data to chart")

// Artifact describes one chart written to disk.
type Artifact struct {
	// Name identifies the view the chart was drawn from.
	Name string
	// Path is where the PNG was written.
	Path string
	// Bytes is the size of the PNG.
	Bytes int
	// Duration is the time spent rendering and writing.
	Duration time.Duration
}

// Recorder receives one observation per rendered chart.
type Recorder interface {
	ObserveChart(name string, elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveChart(string, time.Duration, error) {}

// Reporter renders the chart set for an enriched record table.
type Reporter struct {
	outDir   string
	workers  int
	size     Size
	logger   logging.Logger
	recorder Recorder
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithWorkers bounds the number of charts rendered concurrently.
func WithWorkers(n int) Option {
	return func(r *Reporter) { r.workers = n }
}

// WithSize sets the pixel size of the single-panel charts.
func WithSize(s Size) Option {
	return func(r *Reporter) { r.size = s }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Reporter) { r.logger = l }
}

// WithRecorder sets the metrics sink.
func WithRecorder(rec Recorder) Option {
	return func(r *Reporter) { r.recorder = rec }
}

// New returns a Reporter writing into outDir.
func New(outDir string, opts ...Option) *Reporter {
	r := &Reporter{
		outDir:   outDir,
		workers:  1,
		size:     DefaultSize,
		logger:   logging.Nop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = 1
	}
	return r
}

type job struct {
	name   string
	file   string
	render func(io.Writer) error
}

func (r *Reporter) jobs(records []dataset.Record) []job {
	return []job{
		{"GenderShare", FilePie, func(w io.Writer) error {
			return RenderGenderPie(w, GenderShare(records), r.size)
		}},
		{"MeanByEducation", FileBar, func(w io.Writer) error {
			return RenderEducationBars(w, MeanByEducation(records), r.size)
		}},
		{"ScoreScatter", FileScatter, func(w io.Writer) error {
			return RenderScatter(w, ScoreScatter(records), r.size)
		}},
		{"PrepResult", FileStacked, func(w io.Writer) error {
			return RenderPrepResultBars(w, PrepResult(records), r.size)
		}},
		{"Correlation", FileHeatmap, func(w io.Writer) error {
			return RenderHeatmap(w, Correlation(records))
		}},
		{"Histograms", FileHistogram, func(w io.Writer) error {
			hists := make([]Histogram, len(dataset.ScoreColumns))
			for i, col := range dataset.ScoreColumns {
				hists[i] = BuildHistogram(col, Column(records, col), HistogramBins)
			}
			return RenderHistograms(w, hists, Size{Width: r.size.Width * 3 / 2, Height: r.size.Height / 2})
		}},
	}
}

// RenderAll writes every chart into the output directory and returns the
// artifacts in a fixed order. The first failure cancels charts not yet
// started and is returned with the chart name.
func (r *Reporter) RenderAll(ctx context.Context, records []dataset.Record) ([]Artifact, error) {
	if len(records) == 0 {
		return nil, errNoData
	}
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := r.jobs(records)
	artifacts := make([]Artifact, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, j := range jobs {
		idx, jb := i, j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			a, err := r.write(jb)
			elapsed := time.Since(start)
			r.recorder.ObserveChart(jb.name, elapsed, err)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", jb.file, err)
			}
			a.Duration = elapsed
			artifacts[idx] = a
			r.logger.Debug("chart written",
				logging.String("chart", jb.name),
				logging.String("path", a.Path),
				logging.Duration("elapsed", elapsed))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (r *Reporter) write(j job) (Artifact, error) {
	var buf bytes.Buffer
	if err := j.render(&buf); err != nil {
		return Artifact{}, err
	}
	path := filepath.Join(r.outDir, j.file)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: j.name, Path: path, Bytes: buf.Len()}, nil
}
