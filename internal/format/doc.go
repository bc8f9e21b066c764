// Package format holds small display formatters shared by the CLI and the
// application layer.
package format
