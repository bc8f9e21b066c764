// Package logging provides the structured logger used by the exam statistics
// pipeline. Components log through Logger; ZerologAdapter is the only backend.
package logging
