// # Naming Conventions
//
// Functions in this package follow consistent naming patterns:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayDescribe], [DisplayColumnStats], [DisplayArtifacts].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatStat], [FormatFetchStatus].

package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-gota/gota/dataframe"

	"github.com/agbru/examstats/internal/dataset"
	"github.com/agbru/examstats/internal/format"
	"github.com/agbru/examstats/internal/report"
	"github.com/agbru/examstats/internal/ui"
)

// previewHeaders are the columns shown in the enriched table preview.
var previewHeaders = []string{
	dataset.ColGender, dataset.ColGroup, dataset.ColParentEducation, dataset.ColLunch,
	dataset.ColTestPreparation, dataset.ColMath, dataset.ColReading, dataset.ColWriting,
	dataset.ColTotal, dataset.ColAverage, dataset.ColResult,
}

func heading(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s\n", ui.Heading().Render(title))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

// FormatStat renders a statistic with four decimals, or "NaN".
func FormatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// DisplayDescribe prints the summary statistics table.
func DisplayDescribe(out io.Writer, summary dataframe.DataFrame) {
	heading(out, "Summary statistics")
	rows := summary.Records()
	if len(rows) == 0 {
		return
	}
	t := newTable(rows[0]...)
	for _, row := range rows[1:] {
		t.Row(row...)
	}
	fmt.Fprintln(out, t.String())
}

// DisplayPreview prints the first n enriched records.
func DisplayPreview(out io.Writer, records []dataset.Record, n int) {
	if n <= 0 {
		return
	}
	if n > len(records) {
		n = len(records)
	}
	heading(out, fmt.Sprintf("Enriched records (first %d of %d)", n, len(records)))
	t := newTable(previewHeaders...)
	for _, r := range records[:n] {
		t.Row(
			r.Gender, r.Group, r.ParentEducation, r.Lunch, r.TestPreparation,
			strconv.Itoa(r.Math), strconv.Itoa(r.Reading), strconv.Itoa(r.Writing),
			strconv.Itoa(r.Total), strconv.FormatFloat(r.Average, 'f', 2, 64),
			ui.ResultColor(string(r.Result))+string(r.Result)+ui.ColorReset(),
		)
	}
	fmt.Fprintln(out, t.String())
}

// DisplayColumnStats prints one statistic per numeric column.
func DisplayColumnStats(out io.Writer, title string, stats []report.ColumnStat) {
	heading(out, title)
	t := newTable("column", "value")
	for _, s := range stats {
		t.Row(s.Column, FormatStat(s.Value))
	}
	fmt.Fprintln(out, t.String())
}

// DisplayCorrelation prints the full correlation matrix.
func DisplayCorrelation(out io.Writer, m report.Matrix) {
	heading(out, "Correlation matrix")
	t := newTable(append([]string{""}, m.Columns...)...)
	for i, col := range m.Columns {
		row := make([]string, 0, len(m.Columns)+1)
		row = append(row, col)
		for j := range m.Columns {
			row = append(row, FormatStat(m.At(i, j)))
		}
		t.Row(row...)
	}
	fmt.Fprintln(out, t.String())
}

// DisplayArtifacts lists the charts written during the run.
func DisplayArtifacts(out io.Writer, artifacts []report.Artifact) {
	heading(out, "Charts")
	for _, a := range artifacts {
		fmt.Fprintf(out, "  %s%-16s%s %s (%s, %s)\n",
			ui.ColorGreen(), a.Name, ui.ColorReset(), a.Path,
			format.FormatBytes(uint64(a.Bytes)), format.FormatExecutionDuration(a.Duration))
	}
}

// DisplaySummary prints the closing line of a run.
func DisplaySummary(out io.Writer, rows int, charts int, elapsed string) {
	fmt.Fprintf(out, "\n%sProcessed %d records, wrote %d charts in %s.%s\n",
		ui.ColorBold(), rows, charts, elapsed, ui.ColorReset())
}
