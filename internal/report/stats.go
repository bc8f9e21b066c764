package report

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/agbru/examstats/internal/dataset"
)

// ColumnStat is a single statistic for one numeric column.
type ColumnStat struct {
	Column string
	Value  float64
}

// Matrix is a square matrix labelled by column names.
type Matrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the value at row i, column j.
func (m Matrix) At(i, j int) float64 { return m.Values[i][j] }

// Column extracts one of dataset.NumericColumns from every record.
func Column(records []dataset.Record, column string) []float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i], _ = r.Numeric(column)
	}
	return values
}

// Skewness returns the bias-adjusted sample skewness of each numeric column.
func Skewness(records []dataset.Record) []ColumnStat {
	return perColumn(records, func(x []float64) float64 {
		if len(x) < 3 {
			return math.NaN()
		}
		return stat.Skew(x, nil)
	})
}

// Kurtosis returns the bias-adjusted sample excess kurtosis of each numeric
// column.
func Kurtosis(records []dataset.Record) []ColumnStat {
	return perColumn(records, func(x []float64) float64 {
		if len(x) < 4 {
			return math.NaN()
		}
		return stat.ExKurtosis(x, nil)
	})
}

func perColumn(records []dataset.Record, fn func([]float64) float64) []ColumnStat {
	out := make([]ColumnStat, len(dataset.NumericColumns))
	for i, col := range dataset.NumericColumns {
		out[i] = ColumnStat{Column: col, Value: fn(Column(records, col))}
	}
	return out
}

// Correlation returns the Pearson correlation matrix of the numeric columns.
// Pairs involving a constant column are NaN.
func Correlation(records []dataset.Record) Matrix {
	cols := dataset.NumericColumns
	data := make([][]float64, len(cols))
	for i, col := range cols {
		data[i] = Column(records, col)
	}

	values := make([][]float64, len(cols))
	for i := range cols {
		values[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := 0; j <= i; j++ {
			v := math.NaN()
			if len(records) > 1 {
				v = stat.Correlation(data[i], data[j], nil)
			}
			values[i][j] = v
			values[j][i] = v
		}
	}
	return Matrix{Columns: append([]string(nil), cols...), Values: values}
}
