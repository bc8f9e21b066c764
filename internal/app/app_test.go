package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	apperrors "github.com/agbru/examstats/internal/errors"
	"github.com/agbru/examstats/internal/report"
)

const sampleInput = "../../testdata/study_performance.csv"

func newApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	a, err := New(append([]string{"examstats", "--no-color", "--env-file", ""}, args...), &errBuf)
	if err != nil {
		t.Fatalf("New() error = %v\nstderr: %s", err, errBuf.String())
	}
	return a, &errBuf
}

func TestNew_HelpAndConfigErrors(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"examstats", "--help"}, &errBuf)
	if !IsHelpError(err) {
		t.Errorf("--help: IsHelpError(%v) = false", err)
	}
	if !strings.Contains(errBuf.String(), "Usage:") {
		t.Errorf("--help should print usage, got %q", errBuf.String())
	}

	_, err = New([]string{"examstats", "--workers", "0"}, &bytes.Buffer{})
	if code := apperrors.ExitCode(err); code != apperrors.ExitErrorConfig {
		t.Errorf("--workers 0: exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestRun_LocalInput(t *testing.T) {
	outDir := t.TempDir()
	metricsFile := filepath.Join(outDir, "examstats.prom")
	a, errBuf := newApp(t, "--input", sampleInput, "--output-dir", outDir,
		"--metrics-file", metricsFile, "--workers", "2")

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want 0\nstderr: %s", code, errBuf.String())
	}

	got := out.String()
	order := []string{"Summary statistics", "Enriched records", "Skewness", "Kurtosis", "Correlation matrix", "Charts", "Processed 30 records"}
	last := -1
	for _, section := range order {
		idx := strings.Index(got, section)
		if idx < 0 {
			t.Fatalf("output missing %q:\n%s", section, got)
		}
		if idx < last {
			t.Errorf("section %q printed out of order", section)
		}
		last = idx
	}

	for _, name := range []string{report.FilePie, report.FileBar, report.FileScatter,
		report.FileStacked, report.FileHeatmap, report.FileHistogram} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("chart %s missing: %v", name, err)
		}
	}

	prom, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	for _, want := range []string{"examstats_rows 30", `examstats_stage_duration_seconds_count{stage="render"} 1`} {
		if !strings.Contains(string(prom), want) {
			t.Errorf("metrics file missing %q", want)
		}
	}
}

func TestRun_Quiet(t *testing.T) {
	a, _ := newApp(t, "--input", sampleInput, "--no-charts", "--quiet")

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want 0", code)
	}
	got := out.String()
	if !strings.Contains(got, "Correlation matrix") {
		t.Error("quiet mode must still print the statistics tables")
	}
	for _, absent := range []string{"Enriched records", "Processed"} {
		if strings.Contains(got, absent) {
			t.Errorf("quiet mode printed %q", absent)
		}
	}
}

func TestRun_NoColorEnvPlainLogs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var errBuf bytes.Buffer
	a, err := New([]string{"examstats", "--env-file", "", "--input", sampleInput, "--no-charts", "--verbose"}, &errBuf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if code := a.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want 0\nstderr: %s", code, errBuf.String())
	}
	if !strings.Contains(errBuf.String(), "using local dataset") {
		t.Fatalf("expected log output on stderr, got %q", errBuf.String())
	}
	if strings.Contains(errBuf.String(), "\x1b[") {
		t.Errorf("NO_COLOR run wrote coloured log lines: %q", errBuf.String())
	}
}

func TestRun_Download(t *testing.T) {
	payload, err := os.ReadFile(sampleInput)
	if err != nil {
		t.Fatal(err)
	}
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	staging := filepath.Join(t.TempDir(), "downloaded_data.csv")
	a, errBuf := newApp(t, "--url", srv.URL, "--staging", staging, "--fetch-delay", "0",
		"--no-charts", "--quiet")
	a.client = srv.Client()

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want 0\nstderr: %s", code, errBuf.String())
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}
	staged, err := os.ReadFile(staging)
	if err != nil {
		t.Fatalf("staging file: %v", err)
	}
	if !bytes.Equal(staged, payload) {
		t.Error("staging file differs from the served payload")
	}
}

func TestRun_ExitCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.csv")
	if err := os.WriteFile(broken, []byte("gender,math_score,reading_score,writing_score\nfemale,90,x,70\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		args []string
		want int
	}{
		{"malformed score", context.Background(), []string{"--input", broken, "--no-charts"}, apperrors.ExitErrorData},
		{"missing input", context.Background(), []string{"--input", filepath.Join(dir, "absent.csv")}, apperrors.ExitErrorGeneric},
		{"retries exhausted", context.Background(), []string{"--url", srv.URL, "--staging", filepath.Join(dir, "s.csv"),
			"--fetch-attempts", "2", "--fetch-delay", "0", "--quiet"}, apperrors.ExitErrorExhausted},
		{"canceled", canceled, []string{"--url", srv.URL, "--staging", filepath.Join(dir, "c.csv"), "--quiet"}, apperrors.ExitErrorCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, errBuf := newApp(t, tt.args...)
			a.client = srv.Client()
			if code := a.Run(tt.ctx, &bytes.Buffer{}); code != tt.want {
				t.Errorf("Run() = %d, want %d\nstderr: %s", code, tt.want, errBuf.String())
			}
			if !strings.Contains(errBuf.String(), "Error:") {
				t.Errorf("stderr should carry the error, got %q", errBuf.String())
			}
		})
	}
}

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	if !HasVersionFlag([]string{"--input", "x", "-V"}) {
		t.Error("-V should be recognised")
	}
	if HasVersionFlag([]string{"--verbose"}) {
		t.Error("--verbose is not a version flag")
	}
	var out bytes.Buffer
	PrintVersion(&out)
	if !strings.HasPrefix(out.String(), "examstats dev") {
		t.Errorf("PrintVersion() = %q", out.String())
	}
}
