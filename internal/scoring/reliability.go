package scoring

import (
	"math"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/quiz"
)

// Reliability heuristics. These are fixed, not tunable.
const (
	MinReliabilityAnswers = 5

	weightConsistency = 0.5
	weightVariability = 0.3
	weightTiming      = 0.2

	// neutralSubScore is used when a signal has too little data to judge.
	neutralSubScore = 0.5

	// maxDeviation is the largest possible gap between two means on the 1..5 scale.
	maxDeviation = float64(quiz.MaxScore - quiz.MinScore)

	shortAnswerSet  = 5
	fullVariability = 1.5

	minTimedAnswers = 3
	fastMillis      = 2000
	slowMillis      = 30000
	apprMinMillis   = 3000
	apprMaxMillis   = 20000

	consistentCutoff   = 80
	inconsistentCutoff = 50
)

// ScoreReliability rates how trustworthy an answer set looks. It never fails:
// degenerate inputs resolve to fixed defaults.
func ScoreReliability(answers []quiz.Answer, bank *quiz.Bank) ReliabilityReport {
	if len(answers) < MinReliabilityAnswers {
		return ReliabilityReport{Score: 0, Pattern: PatternRandom}
	}

	rc := reverseItemConsistency(answers, bank)
	rv := responseVariability(answers)
	tp := timePlausibility(answers)

	score := int(math.Round(100 * (rc*weightConsistency + rv*weightVariability + tp*weightTiming)))

	return ReliabilityReport{
		Score:   score,
		Pattern: PatternFor(score),
		Details: Details{
			ReverseItemConsistency: percent(rc),
			ResponseVariability:    percent(rv),
			SpeedConsistency:       percent(tp),
		},
	}
}

// PatternFor maps a 0-100 reliability score onto its coarse label.
func PatternFor(score int) Pattern {
	switch {
	case score >= consistentCutoff:
		return PatternConsistent
	case score >= inconsistentCutoff:
		return PatternInconsistent
	default:
		return PatternRandom
	}
}

// reverseItemConsistency compares each axis's reverse-item mean with the reflection
// of its normal-item mean. Only axes with both polarities count.
func reverseItemConsistency(answers []quiz.Answer, bank *quiz.Bank) float64 {
	normal := make(map[string][]float64)
	reverse := make(map[string][]float64)

	for _, a := range answers {
		q, ok := bank.Lookup(a.QuestionID)
		if !ok {
			continue
		}
		score := float64(ClampScore(a.Score))
		if q.IsReverse {
			reverse[q.Axis] = append(reverse[q.Axis], score)
		} else {
			normal[q.Axis] = append(normal[q.Axis], score)
		}
	}

	var per []float64
	for _, axis := range bank.AxisOrder() {
		n, r := normal[axis], reverse[axis]
		if len(n) == 0 || len(r) == 0 {
			continue
		}
		expected := float64(quiz.MaxScore+quiz.MinScore) - mean(n)
		per = append(per, math.Max(0, 1-math.Abs(mean(r)-expected)/maxDeviation))
	}

	if len(per) == 0 {
		return neutralSubScore
	}
	return mean(per)
}

func responseVariability(answers []quiz.Answer) float64 {
	scores := make([]int, len(answers))
	values := make([]float64, len(answers))
	for i, a := range answers {
		scores[i] = ClampScore(a.Score)
		values[i] = float64(scores[i])
	}

	distinct := distinctCount(scores)
	if distinct <= 1 {
		return 0
	}
	if len(answers) <= shortAnswerSet {
		return float64(distinct) / shortAnswerSet
	}
	return math.Min(sampleStdDev(values)/fullVariability, 1)
}

// timePlausibility penalises answers given implausibly fast or slow. Times between the
// suspicious and appropriate bands count toward the total only.
func timePlausibility(answers []quiz.Answer) float64 {
	var fast, slow, appropriate, total int
	for _, a := range answers {
		if a.TimeSpent <= 0 {
			continue
		}
		total++
		switch {
		case a.TimeSpent < fastMillis:
			fast++
		case a.TimeSpent > slowMillis:
			slow++
		case a.TimeSpent >= apprMinMillis && a.TimeSpent <= apprMaxMillis:
			appropriate++
		}
	}

	if total < minTimedAnswers {
		return neutralSubScore
	}

	t := float64(total)
	suspicious := float64(fast+slow) / t
	return math.Max(0, float64(appropriate)/t-0.5*suspicious)
}

// Evaluate runs both engine stages over the same answer set.
func Evaluate(answers []quiz.Answer, bank *quiz.Bank) Evaluation {
	return Evaluation{
		Classification: ClassifyDetailed(answers, bank),
		Reliability:    ScoreReliability(answers, bank),
	}
}
