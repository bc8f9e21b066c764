package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "github.com/agbru/examstats/internal/errors"
)

// categoricalTypes pins the categorical columns to strings so type detection
// never reinterprets a value such as "none".
var categoricalTypes = map[string]series.Type{
	ColGender:            series.String,
	ColRaceEthnicity:     series.String,
	ColParentalEducation: series.String,
	ColLunch:             series.String,
	ColTestPrepCourse:    series.String,
	ColGroup:             series.String,
	ColParentEducation:   series.String,
	ColTestPreparation:   series.String,
	ColResult:            series.String,
}

// Load parses a CSV stream with a header row into a table. Score columns
// keep their detected type; Transform validates them.
func Load(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r, dataframe.WithTypes(categoricalTypes))
	if df.Err != nil {
		return df, apperrors.DataShapeError{Row: -1, Reason: fmt.Sprintf("unreadable CSV: %v", df.Err)}
	}
	return df, nil
}

// LoadFile opens path and parses it with Load.
func LoadFile(path string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()
	return Load(file)
}

// HasColumn reports whether df carries a column with the given name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
