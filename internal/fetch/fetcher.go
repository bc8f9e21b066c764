//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetch.go -package=mocks

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-retry"

	apperrors "github.com/agbru/examstats/internal/errors"
	"github.com/agbru/examstats/internal/logging"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc is a function adapter that implements Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do calls the underlying function.
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// StatusError is returned for a response whose status is not 200 OK.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// AttemptHook observes every attempt. err is nil for the successful one.
type AttemptHook func(attempt int, err error)

// Fetcher downloads a payload and persists it to a staging file, retrying
// transient failures according to its RetryPolicy.
type Fetcher struct {
	client         Doer
	policy         RetryPolicy
	stagingPath    string
	requestTimeout time.Duration
	logger         logging.Logger
	recorder       Recorder
	hook           AttemptHook
}

// Option configures a Fetcher during construction.
type Option func(*Fetcher)

// WithClient sets the HTTP transport.
func WithClient(c Doer) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithPolicy sets the retry policy.
func WithPolicy(p RetryPolicy) Option {
	return func(f *Fetcher) { f.policy = p }
}

// WithRequestTimeout bounds every individual attempt. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.requestTimeout = d }
}

// WithLogger sets the logger used for attempt failures.
func WithLogger(l logging.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(f *Fetcher) { f.recorder = r }
}

// WithAttemptHook registers a callback invoked after each attempt.
func WithAttemptHook(h AttemptHook) Option {
	return func(f *Fetcher) { f.hook = h }
}

// New creates a Fetcher that writes downloads to stagingPath.
func New(stagingPath string, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      http.DefaultClient,
		policy:      DefaultRetryPolicy(),
		stagingPath: stagingPath,
		logger:      logging.Nop(),
		recorder:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// StagingPath returns the file the payload is persisted to.
func (f *Fetcher) StagingPath() string {
	return f.stagingPath
}

// Fetch downloads url, persists the body to the staging path and returns it.
//
// Connection errors, timeouts, non-200 statuses and body read errors are
// retried per the policy. A bounded policy that runs out of attempts yields
// apperrors.RetryExhaustedError. Context cancellation stops the loop and
// returns the context error. A failure to write the staging file is
// returned immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	attempts := 0
	permanent := false
	var payload []byte

	err := retry.Do(ctx, f.policy.Backoff(), func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		attempts++
		start := time.Now()
		body, err := f.attempt(ctx, url)
		f.recorder.ObserveFetchAttempt(err == nil, time.Since(start))
		if f.hook != nil {
			f.hook(attempts, err)
		}
		if err != nil {
			var perr *permanentError
			if errors.As(err, &perr) {
				permanent = true
				return perr.err
			}
			f.logger.Warn("download attempt failed",
				logging.Int("attempt", attempts),
				logging.String("url", url),
				logging.Err(err))
			return retry.RetryableError(err)
		}
		payload = body
		return nil
	})
	if err != nil {
		if apperrors.IsContextError(err) && ctx.Err() != nil {
			return nil, apperrors.WrapError(err, "download of %s interrupted after %d attempts", url, attempts)
		}
		if !permanent && attempts > 0 && !f.policy.Unbounded() {
			return nil, apperrors.RetryExhaustedError{Attempts: attempts, Last: err}
		}
		return nil, err
	}

	if err := writeStaging(f.stagingPath, payload); err != nil {
		return nil, err
	}
	f.logger.Info("dataset downloaded",
		logging.String("path", f.stagingPath),
		logging.Int("bytes", len(payload)),
		logging.Int("attempts", attempts))
	return payload, nil
}

// permanentError marks a failure that retrying cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func (f *Fetcher) attempt(ctx context.Context, url string) ([]byte, error) {
	if f.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.requestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &permanentError{err: fmt.Errorf("invalid request: %w", err)}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// writeStaging writes payload to path, guaranteeing the handle is closed
// before returning. A close error is reported like a write error.
func writeStaging(path string, payload []byte) (err error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create staging directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close staging file: %w", cerr)
		}
	}()

	if _, err := file.Write(payload); err != nil {
		return fmt.Errorf("failed to write staging file: %w", err)
	}
	return nil
}
