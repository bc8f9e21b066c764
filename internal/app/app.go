package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/examstats/internal/cli"
	"github.com/agbru/examstats/internal/config"
	"github.com/agbru/examstats/internal/dataset"
	apperrors "github.com/agbru/examstats/internal/errors"
	"github.com/agbru/examstats/internal/fetch"
	"github.com/agbru/examstats/internal/format"
	"github.com/agbru/examstats/internal/logging"
	"github.com/agbru/examstats/internal/metrics"
	"github.com/agbru/examstats/internal/report"
	"github.com/agbru/examstats/internal/ui"
)

const tracerName = "github.com/agbru/examstats"

// Pipeline stage names, used for spans and the stage duration metric.
const (
	stageFetch     = "fetch"
	stageTransform = "transform"
	stagePrint     = "print"
	stageRender    = "render"
)

// Application represents one examstats run.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	client  fetch.Doer
	tracer  trace.Tracer
	metrics *metrics.Pipeline
	logger  *logging.ZerologAdapter
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithHTTPClient sets the transport used to download the dataset.
func WithHTTPClient(c fetch.Doer) AppOption {
	return func(a *Application) { a.client = c }
}

// WithTracer sets the tracer used for pipeline spans.
func WithTracer(t trace.Tracer) AppOption {
	return func(a *Application) { a.tracer = t }
}

// New creates an Application by parsing command-line arguments. args[0] is
// the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.client == nil {
		app.client = http.DefaultClient
	}
	if app.tracer == nil {
		app.tracer = otel.Tracer(tracerName)
	}

	programName := "examstats"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the pipeline and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)
	a.logger = logging.NewConsoleLogger(a.ErrWriter, !ui.ColorEnabled(), a.logLevel())
	a.metrics = metrics.NewPipeline()

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	start := time.Now()
	memBefore := metrics.TakeMemorySnapshot()
	err := a.run(ctx, out, start)

	if a.Config.MetricsFile != "" {
		if werr := a.metrics.WriteTextfile(a.Config.MetricsFile); werr != nil {
			a.logger.Error("failed to write metrics file", werr, logging.String("path", a.Config.MetricsFile))
			if err == nil {
				err = werr
			}
		}
	}
	if a.Config.Verbose {
		a.logger.Debug("memory", logging.String("summary", metrics.TakeMemorySnapshot().Summary(memBefore)))
	}

	if err != nil {
		fmt.Fprintf(a.ErrWriter, "%sError:%s %v\n", ui.ColorRed(), ui.ColorReset(), err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitSuccess
}

func (a *Application) logLevel() zerolog.Level {
	switch {
	case a.Config.Verbose:
		return zerolog.DebugLevel
	case a.Config.Quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

func (a *Application) run(ctx context.Context, out io.Writer, start time.Time) error {
	var path string
	err := a.stage(ctx, stageFetch, func(ctx context.Context) error {
		var err error
		path, err = a.acquire(ctx)
		return err
	})
	if err != nil {
		return err
	}

	var (
		enriched dataframe.DataFrame
		records  []dataset.Record
	)
	err = a.stage(ctx, stageTransform, func(ctx context.Context) error {
		var err error
		enriched, records, err = a.load(path)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("rows", len(records)))
		return err
	})
	if err != nil {
		return err
	}

	err = a.stage(ctx, stagePrint, func(context.Context) error {
		return a.print(out, enriched, records)
	})
	if err != nil {
		return err
	}

	var artifacts []report.Artifact
	if !a.Config.NoCharts {
		err = a.stage(ctx, stageRender, func(ctx context.Context) error {
			r := report.New(a.Config.OutputDir,
				report.WithWorkers(a.Config.Workers),
				report.WithLogger(a.logger.With("report")),
				report.WithRecorder(a.metrics))
			var err error
			artifacts, err = r.RenderAll(ctx, records)
			return err
		})
		if err != nil {
			return err
		}
	}

	if !a.Config.Quiet {
		if len(artifacts) > 0 {
			cli.DisplayArtifacts(out, artifacts)
		}
		cli.DisplaySummary(out, len(records), len(artifacts), format.FormatExecutionDuration(time.Since(start)))
	}
	return nil
}

// stage runs fn inside a span and records its duration.
func (a *Application) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := a.tracer.Start(ctx, name)
	defer span.End()

	begin := time.Now()
	err := fn(ctx)
	a.metrics.ObserveStage(name, time.Since(begin))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// acquire returns the path of the CSV to analyse, downloading it first
// unless a local input was given.
func (a *Application) acquire(ctx context.Context) (string, error) {
	if a.Config.InputFile != "" {
		a.logger.Info("using local dataset", logging.String("path", a.Config.InputFile))
		return a.Config.InputFile, nil
	}

	opts := []fetch.Option{
		fetch.WithClient(a.client),
		fetch.WithPolicy(fetch.RetryPolicy{
			MaxAttempts:  a.Config.FetchAttempts,
			InitialDelay: a.Config.FetchDelay,
			MaxDelay:     a.Config.FetchMaxDelay,
			Multiplier:   2,
		}),
		fetch.WithRequestTimeout(a.Config.RequestTimeout),
		fetch.WithLogger(a.logger.With("fetch")),
		fetch.WithRecorder(a.metrics),
	}
	if !a.Config.Quiet {
		progress := cli.NewFetchProgress(a.ErrWriter, a.Config.URL)
		defer progress.Stop()
		opts = append(opts, fetch.WithAttemptHook(progress.Hook(a.Config.URL)))
	}

	f := fetch.New(a.Config.StagingFile, opts...)
	if _, err := f.Fetch(ctx, a.Config.URL); err != nil {
		return "", err
	}
	return f.StagingPath(), nil
}

// load reads and enriches the CSV at path.
func (a *Application) load(path string) (dataframe.DataFrame, []dataset.Record, error) {
	df, err := dataset.LoadFile(path)
	if err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	enriched, err := dataset.Transform(df)
	if err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	records, err := dataset.Records(enriched)
	if err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	a.metrics.SetRows(len(records))

	counts := dataset.EducationCounts(records)
	levels := make([]string, 0, len(counts))
	for level := range counts {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	for _, level := range levels {
		a.logger.Debug("education level", logging.String("level", level), logging.Int("count", counts[level]))
	}
	return enriched, records, nil
}

// print writes the statistics tables in their fixed order.
func (a *Application) print(out io.Writer, enriched dataframe.DataFrame, records []dataset.Record) error {
	summary, err := dataset.Describe(enriched)
	if err != nil {
		return err
	}

	cli.DisplayDescribe(out, summary)
	if !a.Config.Quiet {
		cli.DisplayPreview(out, records, a.Config.PreviewRows)
	}
	cli.DisplayColumnStats(out, "Skewness", report.Skewness(records))
	cli.DisplayColumnStats(out, "Kurtosis", report.Kurtosis(records))
	cli.DisplayCorrelation(out, report.Correlation(records))
	return nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
