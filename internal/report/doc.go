// Package report computes the aggregate views of an enriched record table
// and renders them as PNG charts.
//
// Views and statistics are plain functions over []dataset.Record. Charts are
// drawn with go-chart, except the correlation heatmap which is painted
// directly with the basicfont face. Reporter.RenderAll renders the whole set
// with a bounded number of workers.
package report
