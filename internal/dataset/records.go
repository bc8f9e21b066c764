package dataset

import (
	"github.com/go-gota/gota/dataframe"

	apperrors "github.com/agbru/examstats/internal/errors"
)

// requiredColumns are the enriched columns the reports group by.
var requiredColumns = []string{ColGender, ColParentEducation, ColTestPreparation, ColTotal, ColAverage, ColResult}

// Records projects an enriched table into typed rows. It fails with a
// DataShapeError when a reported column is missing; group and lunch are
// optional and left empty when absent.
func Records(df dataframe.DataFrame) ([]Record, error) {
	for _, col := range requiredColumns {
		if !HasColumn(df, col) {
			return nil, apperrors.DataShapeError{Column: col, Row: -1, Reason: "column is missing"}
		}
	}

	var scores [3][]int
	for i, col := range ScoreColumns {
		values, err := scoreColumn(df, col)
		if err != nil {
			return nil, err
		}
		scores[i] = values
	}
	totals, err := scoreColumn(df, ColTotal)
	if err != nil {
		return nil, err
	}

	gender := df.Col(ColGender).Records()
	education := df.Col(ColParentEducation).Records()
	prep := df.Col(ColTestPreparation).Records()
	averages := df.Col(ColAverage).Float()
	results := df.Col(ColResult).Records()
	group := optionalStrings(df, ColGroup)
	lunch := optionalStrings(df, ColLunch)

	records := make([]Record, df.Nrow())
	for i := range records {
		records[i] = Record{
			Gender:          gender[i],
			Group:           group[i],
			ParentEducation: education[i],
			Lunch:           lunch[i],
			TestPreparation: prep[i],
			Math:            scores[0][i],
			Reading:         scores[1][i],
			Writing:         scores[2][i],
			Total:           totals[i],
			Average:         averages[i],
			Result:          Result(results[i]),
		}
	}
	return records, nil
}

func optionalStrings(df dataframe.DataFrame, col string) []string {
	if HasColumn(df, col) {
		return df.Col(col).Records()
	}
	return make([]string, df.Nrow())
}

// Describe returns summary statistics (mean, median, stddev, min, quartiles,
// max) for the numeric columns of an enriched table.
func Describe(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	cols := make([]string, 0, len(NumericColumns))
	for _, col := range NumericColumns {
		if HasColumn(df, col) {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return dataframe.DataFrame{}, apperrors.DataShapeError{Row: -1, Reason: "no numeric columns to describe"}
	}
	summary := df.Select(cols).Describe()
	if summary.Err != nil {
		return summary, apperrors.WrapError(summary.Err, "failed to describe table")
	}
	return summary, nil
}

// EducationCounts tallies rows per parent education level.
func EducationCounts(records []Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.ParentEducation]++
	}
	return counts
}
