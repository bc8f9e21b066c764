package fetch

import "time"

// Recorder receives per-attempt download measurements.
type Recorder interface {
	ObserveFetchAttempt(success bool, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveFetchAttempt(bool, time.Duration) {}
