package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/agbru/examstats/internal/errors"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "EXAMSTATS_"

// Default configuration values.
const (
	// DefaultURL is the published location of the study performance dataset.
	DefaultURL = "https://github.com/pratapponnam/DHV-Assignment/blob/main/study_performance.csv?raw=True"
	// DefaultStagingFile is where the downloaded payload is persisted.
	DefaultStagingFile = "downloaded_data.csv"
	// DefaultOutputDir receives the chart images.
	DefaultOutputDir = "."
	// DefaultFetchAttempts bounds the download loop; 0 means unbounded.
	DefaultFetchAttempts = 10
	// DefaultFetchDelay is the first backoff delay between attempts.
	DefaultFetchDelay = 500 * time.Millisecond
	// DefaultFetchMaxDelay caps the backoff delay.
	DefaultFetchMaxDelay = 30 * time.Second
	// DefaultRequestTimeout bounds a single HTTP attempt.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultPreviewRows is how many enriched rows are printed.
	DefaultPreviewRows = 10
	// DefaultDotEnvFile is loaded, when present, before env overrides apply.
	DefaultDotEnvFile = ".env"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// URL is the remote dataset location, used when InputFile is empty.
	URL string
	// InputFile is a pre-existing local CSV; when set no download happens.
	InputFile string
	// StagingFile is the local path the downloaded payload is written to.
	StagingFile string
	// OutputDir is the directory chart images are written into.
	OutputDir string
	// FetchAttempts is the maximum number of download attempts (0 = unbounded).
	FetchAttempts int
	// FetchDelay is the initial backoff delay (0 = retry immediately).
	FetchDelay time.Duration
	// FetchMaxDelay caps the exponential backoff.
	FetchMaxDelay time.Duration
	// RequestTimeout bounds a single HTTP request.
	RequestTimeout time.Duration
	// Workers limits concurrent chart rendering.
	Workers int
	// NoCharts skips chart rendering.
	NoCharts bool
	// PreviewRows is the number of enriched rows to print (0 disables).
	PreviewRows int
	// MetricsFile, when set, receives Prometheus text-format metrics.
	MetricsFile string
	// Quiet suppresses everything except errors and the statistics tables.
	Quiet bool
	// Verbose enables debug logging and the memory summary.
	Verbose bool
	// NoColor disables ANSI colors.
	NoColor bool
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c AppConfig) Validate() error {
	if c.InputFile == "" && strings.TrimSpace(c.URL) == "" {
		return apperrors.NewConfigError("either --url or --input must be provided")
	}
	if c.InputFile == "" && c.StagingFile == "" {
		return apperrors.ValidationError{Field: "staging", Message: "must not be empty when downloading"}
	}
	if c.FetchAttempts < 0 {
		return apperrors.ValidationError{Field: "fetch-attempts", Message: "must be >= 0 (0 means unbounded)"}
	}
	if c.FetchDelay < 0 || c.FetchMaxDelay < 0 {
		return apperrors.ValidationError{Field: "fetch-delay", Message: "delays must not be negative"}
	}
	if c.FetchMaxDelay > 0 && c.FetchDelay > c.FetchMaxDelay {
		return apperrors.ValidationError{Field: "fetch-max-delay", Message: "must be >= --fetch-delay"}
	}
	if c.RequestTimeout < 0 {
		return apperrors.ValidationError{Field: "request-timeout", Message: "must not be negative"}
	}
	if c.Workers < 1 {
		return apperrors.ValidationError{Field: "workers", Message: "must be at least 1"}
	}
	if c.PreviewRows < 0 {
		return apperrors.ValidationError{Field: "preview", Message: "must not be negative"}
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	return nil
}

// ParseConfig parses command-line arguments, applies environment overrides
// for flags that were not set explicitly, and validates the result.
//
// Priority: CLI flags > environment variables (EXAMSTATS_*, optionally from a
// .env file) > defaults.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintf(errorWriter, "Downloads the study performance dataset, derives totals, averages and\n")
		fmt.Fprintf(errorWriter, "results, prints descriptive statistics and renders charts.\n\n")
		fmt.Fprintf(errorWriter, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(errorWriter, "\nEvery option can also be set with %s<NAME> (e.g. %sOUTPUT_DIR).\n", EnvPrefix, EnvPrefix)
	}

	config := AppConfig{}
	var dotEnv string
	fs.StringVar(&config.URL, "url", DefaultURL, "Dataset URL to download.")
	fs.StringVar(&config.InputFile, "input", "", "Local CSV to analyse instead of downloading.")
	fs.StringVar(&config.StagingFile, "staging", DefaultStagingFile, "Path the downloaded CSV is written to.")
	fs.StringVar(&config.OutputDir, "output-dir", DefaultOutputDir, "Directory for chart images.")
	fs.IntVar(&config.FetchAttempts, "fetch-attempts", DefaultFetchAttempts, "Maximum download attempts (0 = retry forever).")
	fs.DurationVar(&config.FetchDelay, "fetch-delay", DefaultFetchDelay, "Initial delay between download attempts (0 = no backoff).")
	fs.DurationVar(&config.FetchMaxDelay, "fetch-max-delay", DefaultFetchMaxDelay, "Maximum delay between download attempts.")
	fs.DurationVar(&config.RequestTimeout, "request-timeout", DefaultRequestTimeout, "Timeout for a single download attempt.")
	fs.IntVar(&config.Workers, "workers", EstimateRenderWorkers(), "Charts rendered concurrently.")
	fs.BoolVar(&config.NoCharts, "no-charts", false, "Skip chart rendering.")
	fs.IntVar(&config.PreviewRows, "preview", DefaultPreviewRows, "Enriched rows to print (0 disables).")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the statistics tables.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&dotEnv, "env-file", DefaultDotEnvFile, "Optional .env file with "+EnvPrefix+"* overrides.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, reportError(errorWriter,
			apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " ")))
	}

	if err := LoadDotEnv(dotEnv); err != nil {
		return AppConfig{}, reportError(errorWriter, apperrors.NewConfigError("cannot load %s: %v", dotEnv, err))
	}
	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		return AppConfig{}, reportError(errorWriter, err)
	}
	return config, nil
}

func reportError(w io.Writer, err error) error {
	fmt.Fprintln(w, err)
	return err
}

// LoadDotEnv loads variables from path into the process environment. Values
// already present in the environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
