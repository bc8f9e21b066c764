// Package fetch downloads the dataset and stages it on local disk.
//
// A Fetcher repeats failed attempts according to a RetryPolicy. The zero
// policy reproduces an unconditional retry-forever loop with no backoff;
// bounded policies give up with apperrors.RetryExhaustedError. Every call
// honours context cancellation.
package fetch
