package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/examstats/internal/fetch"
)

// SpinnerRefreshRate is the animation interval of the download spinner.
const SpinnerRefreshRate = 200 * time.Millisecond

// Spinner abstracts the terminal spinner so tests can observe it.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}

// FetchProgress shows a spinner on out while a download is retried.
type FetchProgress struct {
	s Spinner
}

// NewFetchProgress starts a spinner announcing the download of url.
func NewFetchProgress(out io.Writer, url string) *FetchProgress {
	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(" " + FormatFetchStatus(url, 1, nil))
	s.Start()
	return &FetchProgress{s: s}
}

// Hook returns an attempt hook that keeps the spinner text current.
func (p *FetchProgress) Hook(url string) fetch.AttemptHook {
	return func(attempt int, err error) {
		if err != nil {
			p.s.UpdateSuffix(" " + FormatFetchStatus(url, attempt+1, err))
		}
	}
}

// Stop halts the spinner.
func (p *FetchProgress) Stop() {
	p.s.Stop()
}

// FormatFetchStatus describes the attempt about to run, including the
// previous failure when there was one.
func FormatFetchStatus(url string, attempt int, lastErr error) string {
	if lastErr == nil {
		return fmt.Sprintf("Downloading %s", url)
	}
	return fmt.Sprintf("Downloading %s (attempt %d, last error: %v)", url, attempt, lastErr)
}
