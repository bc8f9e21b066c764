package report

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/agbru/examstats/internal/dataset"
)

// Share is one slice of a categorical breakdown.
type Share struct {
	Label   string
	Count   int
	Percent float64
}

// GroupMean is the mean average score of one group.
type GroupMean struct {
	Label string
	Count int
	Mean  float64
}

// PrepResultRow holds result counts for one test preparation status. Percent
// is relative to the row Total.
type PrepResultRow struct {
	Preparation string
	Counts      map[dataset.Result]int
	Percent     map[dataset.Result]float64
	Total       int
}

// Point is one student's three subject scores.
type Point struct {
	Math    float64
	Reading float64
	Writing float64
}

// GenderShare counts students per gender, largest group first. Ties are
// ordered by label.
func GenderShare(records []dataset.Record) []Share {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Gender]++
	}
	shares := make([]Share, 0, len(counts))
	for label, n := range counts {
		shares = append(shares, Share{Label: label, Count: n, Percent: percent(n, len(records))})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Label < shares[j].Label
	})
	return shares
}

// MeanByEducation averages average_score per parent education level,
// ordered by level name.
func MeanByEducation(records []dataset.Record) []GroupMean {
	groups := make(map[string][]float64)
	for _, r := range records {
		groups[r.ParentEducation] = append(groups[r.ParentEducation], r.Average)
	}
	means := make([]GroupMean, 0, len(groups))
	for label, values := range groups {
		means = append(means, GroupMean{Label: label, Count: len(values), Mean: stat.Mean(values, nil)})
	}
	sort.Slice(means, func(i, j int) bool { return means[i].Label < means[j].Label })
	return means
}

// PrepResult cross-tabulates test preparation status against result,
// ordered by preparation status.
func PrepResult(records []dataset.Record) []PrepResultRow {
	rows := make(map[string]*PrepResultRow)
	for _, r := range records {
		row, ok := rows[r.TestPreparation]
		if !ok {
			row = &PrepResultRow{
				Preparation: r.TestPreparation,
				Counts:      make(map[dataset.Result]int, len(dataset.Results)),
				Percent:     make(map[dataset.Result]float64, len(dataset.Results)),
			}
			rows[r.TestPreparation] = row
		}
		row.Counts[r.Result]++
		row.Total++
	}

	out := make([]PrepResultRow, 0, len(rows))
	for _, row := range rows {
		for _, res := range dataset.Results {
			row.Percent[res] = percent(row.Counts[res], row.Total)
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Preparation < out[j].Preparation })
	return out
}

// ScoreScatter returns the score triples in record order.
func ScoreScatter(records []dataset.Record) []Point {
	points := make([]Point, len(records))
	for i, r := range records {
		points[i] = Point{Math: float64(r.Math), Reading: float64(r.Reading), Writing: float64(r.Writing)}
	}
	return points
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}
