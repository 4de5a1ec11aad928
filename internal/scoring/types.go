package scoring

// Pattern is the coarse reliability label derived from a reliability score.
type Pattern string

const (
	PatternConsistent   Pattern = "consistent"
	PatternInconsistent Pattern = "inconsistent"
	PatternRandom       Pattern = "random"
)

// Details are the three reliability sub-scores, each 0-100.
type Details struct {
	ReverseItemConsistency int `json:"reverseItemConsistency"`
	ResponseVariability    int `json:"responseVariability"`
	SpeedConsistency       int `json:"speedConsistency"`
}

// ReliabilityReport is the trust assessment of one answer set.
type ReliabilityReport struct {
	Score   int     `json:"score"`
	Pattern Pattern `json:"pattern"`
	Details Details `json:"details"`
}

// Classification is the detailed result of classifying an answer set.
type Classification struct {
	TypeCode   string         `json:"typeCode"`
	AxisScores map[string]int `json:"axisScores"`
	AxisItems  map[string]int `json:"axisItems"`
	Thresholds map[string]int `json:"thresholds"`
	// Dropped counts answers whose question id is not in the bank.
	Dropped int `json:"droppedAnswers"`
}

// Evaluation bundles both engine outputs for one quiz run.
type Evaluation struct {
	Classification
	Reliability ReliabilityReport `json:"reliability"`
}
