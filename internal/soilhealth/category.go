package soilhealth

// Category is the qualitative band of a composite score.
type Category string

const (
	Excellent Category = "Excellent"
	Good      Category = "Good"
	Poor      Category = "Poor"
	VeryPoor  Category = "Very Poor"
)

// Category thresholds, inclusive lower bounds on the composite.
const (
	thresholdExcellent = 80.0
	thresholdGood      = 60.0
	thresholdPoor      = 40.0
)

// Categories lists every category from best to worst.
var Categories = []Category{Excellent, Good, Poor, VeryPoor}

var recommendations = map[Category]string{
	Excellent: "Maintain current soil management practices",
	Good:      "Apply balanced fertilizer to optimize nutrient levels",
	Poor:      "Add organic matter and adjust nutrient levels urgently",
	VeryPoor:  "Rebuild soil health urgently; consult an agronomist",
}

// Categorize maps a composite score onto a category.
func Categorize(composite float64) Category {
	switch {
	case composite >= thresholdExcellent:
		return Excellent
	case composite >= thresholdGood:
		return Good
	case composite >= thresholdPoor:
		return Poor
	default:
		return VeryPoor
	}
}

// Recommendation returns the remediation advice for c.
func (c Category) Recommendation() string {
	return recommendations[c]
}

// Rank orders categories: 0 is Excellent, 3 is Very Poor, -1 is unknown.
func (c Category) Rank() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return -1
}

// Status labels a single sub-score for per-parameter analysis.
type Status string

const (
	StatusOptimal        Status = "Optimal"
	StatusGood           Status = "Good"
	StatusNeedsAttention Status = "Needs Attention"
	StatusCritical       Status = "Critical"
)

// ParameterStatus maps a sub-score onto a Status using the category bands.
func ParameterStatus(subScore float64) Status {
	switch Categorize(subScore) {
	case Excellent:
		return StatusOptimal
	case Good:
		return StatusGood
	case Poor:
		return StatusNeedsAttention
	default:
		return StatusCritical
	}
}

// ParameterStatuses labels every sub-score of s.
type ParameterStatuses struct {
	Nitrogen    Status `json:"nitrogen"`
	Phosphorus  Status `json:"phosphorus"`
	Potassium   Status `json:"potassium"`
	PH          Status `json:"pH"`
	EC          Status `json:"ec"`
	Moisture    Status `json:"moisture"`
	Temperature Status `json:"temperature"`
}

// Statuses returns the per-parameter status of every sub-score in b.
func (b Breakdown) Statuses() ParameterStatuses {
	s := b.Scores
	return ParameterStatuses{
		Nitrogen:    ParameterStatus(s.Nitrogen),
		Phosphorus:  ParameterStatus(s.Phosphorus),
		Potassium:   ParameterStatus(s.Potassium),
		PH:          ParameterStatus(s.PH),
		EC:          ParameterStatus(s.EC),
		Moisture:    ParameterStatus(s.Moisture),
		Temperature: ParameterStatus(s.Temperature),
	}
}
