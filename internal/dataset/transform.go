package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "github.com/agbru/examstats/internal/errors"
)

// Transform returns an enriched copy of df:
//
//   - race_ethnicity, parental_level_of_education and test_preparation_course
//     are renamed to group, parent_education_level and test_preparation when
//     present
//   - partial education levels are folded into the completed ones
//   - total_score, average_score and result are appended, or recomputed
//     when already present
//
// Columns absent from the input are left absent, except the three score
// columns, whose absence is a DataShapeError. Applying Transform to its own
// output yields an equal table.
func Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return df, apperrors.WrapError(df.Err, "cannot transform a failed table")
	}

	out := df
	for _, r := range renames {
		if HasColumn(out, r.from) && !HasColumn(out, r.to) {
			out = out.Rename(r.to, r.from)
		}
	}

	if HasColumn(out, ColParentEducation) {
		levels := out.Col(ColParentEducation).Records()
		for i, level := range levels {
			levels[i] = NormalizeEducation(level)
		}
		out = out.Mutate(series.New(levels, series.String, ColParentEducation))
	}

	var scores [3][]int
	for i, col := range ScoreColumns {
		values, err := scoreColumn(out, col)
		if err != nil {
			return df, err
		}
		scores[i] = values
	}

	n := out.Nrow()
	totals := make([]int, n)
	averages := make([]float64, n)
	results := make([]string, n)
	for row := 0; row < n; row++ {
		totals[row] = TotalScore(scores[0][row], scores[1][row], scores[2][row])
		averages[row] = AverageScore(totals[row])
		results[row] = string(Classify(averages[row]))
	}

	out = out.
		Mutate(series.New(totals, series.Int, ColTotal)).
		Mutate(series.New(averages, series.Float, ColAverage)).
		Mutate(series.New(results, series.String, ColResult))
	if out.Err != nil {
		return df, apperrors.WrapError(out.Err, "failed to derive score columns")
	}
	return out, nil
}

// scoreColumn extracts an integral score column, rejecting missing,
// non-numeric, non-finite and fractional values.
func scoreColumn(df dataframe.DataFrame, name string) ([]int, error) {
	if !HasColumn(df, name) {
		return nil, apperrors.DataShapeError{Column: name, Row: -1, Reason: "column is missing"}
	}
	s := df.Col(name)
	switch s.Type() {
	case series.Int, series.Float:
	default:
		row, reason := firstNonNumeric(s.Records())
		if reason == "" {
			reason = fmt.Sprintf("column is not numeric (%s)", s.Type())
		}
		return nil, apperrors.DataShapeError{Column: name, Row: row, Reason: reason}
	}

	floats := s.Float()
	values := make([]int, len(floats))
	for row, v := range floats {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperrors.DataShapeError{Column: name, Row: row, Reason: "value is not a finite number"}
		}
		if v != math.Trunc(v) {
			return nil, apperrors.DataShapeError{Column: name, Row: row, Reason: fmt.Sprintf("value %g is not an integer", v)}
		}
		values[row] = int(v)
	}
	return values, nil
}

// firstNonNumeric returns the index of the first record that does not parse
// as a number together with what is wrong with it, or -1 and "".
func firstNonNumeric(records []string) (int, string) {
	for i, rec := range records {
		if strings.TrimSpace(rec) == "" {
			return i, "value is empty"
		}
		if _, err := strconv.ParseFloat(rec, 64); err != nil {
			return i, fmt.Sprintf("value %q is not numeric", rec)
		}
	}
	return -1, ""
}
