package dataset

import "math"

// Column names as they appear in the published CSV.
const (
	ColGender            = "gender"
	ColRaceEthnicity     = "race_ethnicity"
	ColParentalEducation = "parental_level_of_education"
	ColLunch             = "lunch"
	ColTestPrepCourse    = "test_preparation_course"
	ColMath              = "math_score"
	ColReading           = "reading_score"
	ColWriting           = "writing_score"
)

// Canonical and derived column names of an enriched table.
const (
	ColGroup           = "group"
	ColParentEducation = "parent_education_level"
	ColTestPreparation = "test_preparation"
	ColTotal           = "total_score"
	ColAverage         = "average_score"
	ColResult          = "result"
)

var (
	// ScoreColumns are the three subject scores every row must carry.
	ScoreColumns = []string{ColMath, ColReading, ColWriting}
	// NumericColumns are the numeric columns of an enriched table, in order.
	NumericColumns = []string{ColMath, ColReading, ColWriting, ColTotal, ColAverage}
)

// renames maps source column names to canonical ones, applied in order.
var renames = []struct{ from, to string }{
	{ColRaceEthnicity, ColGroup},
	{ColParentalEducation, ColParentEducation},
	{ColTestPrepCourse, ColTestPreparation},
}

// educationAliases folds partial education levels into the completed one.
var educationAliases = map[string]string{
	"some high school": "high school",
	"some college":     "college",
}

// Result is the three-way classification of an average score.
type Result string

const (
	Distinction Result = "Distinction"
	Pass        Result = "Pass"
	Fail        Result = "Fail"
)

// Results lists the categories in the order charts and tables use.
var Results = []Result{Distinction, Fail, Pass}

// Classification thresholds. Both comparisons are strict, so a score equal
// to a threshold falls in the lower band.
const (
	PassThreshold        = 50.0
	DistinctionThreshold = 75.0
)

// Classify maps an average score onto (-inf,50] Fail, (50,75] Pass,
// (75,inf) Distinction.
func Classify(score float64) Result {
	switch {
	case score > DistinctionThreshold:
		return Distinction
	case score > PassThreshold:
		return Pass
	default:
		return Fail
	}
}

// NormalizeEducation folds "some high school" and "some college" into
// "high school" and "college"; every other value is returned unchanged.
func NormalizeEducation(level string) string {
	if canonical, ok := educationAliases[level]; ok {
		return canonical
	}
	return level
}

// TotalScore sums the three subject scores.
func TotalScore(math, reading, writing int) int {
	return math + reading + writing
}

// AverageScore returns total/3 rounded to two decimals, half away from zero.
func AverageScore(total int) float64 {
	return RoundTo2(float64(total) / 3)
}

// RoundTo2 rounds to two decimal places, half away from zero.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Record is one enriched row, projected out of the table for reporting.
type Record struct {
	Gender          string
	Group           string
	ParentEducation string
	Lunch           string
	TestPreparation string
	Math            int
	Reading         int
	Writing         int
	Total           int
	Average         float64
	Result          Result
}

// Enrich fills the derived fields from the three scores.
func (r *Record) Enrich() {
	r.Total = TotalScore(r.Math, r.Reading, r.Writing)
	r.Average = AverageScore(r.Total)
	r.Result = Classify(r.Average)
}

// Numeric returns the record's value for one of NumericColumns.
func (r Record) Numeric(column string) (float64, bool) {
	switch column {
	case ColMath:
		return float64(r.Math), true
	case ColReading:
		return float64(r.Reading), true
	case ColWriting:
		return float64(r.Writing), true
	case ColTotal:
		return float64(r.Total), true
	case ColAverage:
		return r.Average, true
	}
	return 0, false
}
