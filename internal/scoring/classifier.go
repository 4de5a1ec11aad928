package scoring

import (
	"strings"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/quiz"
)

// ReverseScore reflects raw across the midpoint of a 1..points scale (1<->5, 2<->4 on a
// five point scale). Out-of-range values are clamped first.
func ReverseScore(raw, points int) int {
	if points < 2 {
		return raw
	}
	if raw < 1 {
		raw = 1
	}
	if raw > points {
		raw = points
	}
	return (points + 1) - raw
}

// ClampScore pins raw to the 1..5 answer scale.
func ClampScore(raw int) int {
	return int(clip(float64(raw), quiz.MinScore, quiz.MaxScore))
}

// EffectiveScore is the contribution of raw to its axis accumulator. Both polarities
// clamp raw to the scale first.
func EffectiveScore(q quiz.Question, raw int) int {
	raw = ClampScore(raw)
	if q.IsReverse {
		return ReverseScore(raw, quiz.MaxScore)
	}
	return raw
}

// AxisThreshold is the accumulated total at or above which an axis resolves to its
// high pole: the scale midpoint times the number of answered items on the axis, not the
// number the bank declares.
func AxisThreshold(items int) int {
	return items * quiz.MidScore
}

// Classify maps an answer set to its type code. Unknown question ids are ignored.
func Classify(answers []quiz.Answer, bank *quiz.Bank) string {
	return ClassifyDetailed(answers, bank).TypeCode
}

// ClassifyDetailed sums effective scores per axis and thresholds each axis independently.
// Axes without contributing answers resolve to their neutral symbol; totals equal to the
// threshold resolve to the high pole.
func ClassifyDetailed(answers []quiz.Answer, bank *quiz.Bank) Classification {
	order := bank.AxisOrder()
	res := Classification{
		AxisScores: make(map[string]int, len(order)),
		AxisItems:  make(map[string]int, len(order)),
		Thresholds: make(map[string]int, len(order)),
	}
	for _, axis := range order {
		res.AxisScores[axis] = 0
		res.AxisItems[axis] = 0
	}

	for _, a := range answers {
		q, ok := bank.Lookup(a.QuestionID)
		if !ok {
			res.Dropped++
			continue
		}
		res.AxisScores[q.Axis] += EffectiveScore(q, a.Score)
		res.AxisItems[q.Axis]++
	}

	var code strings.Builder
	for _, axis := range order {
		def, _ := bank.Axis(axis)
		items := res.AxisItems[axis]
		threshold := AxisThreshold(items)
		res.Thresholds[axis] = threshold

		switch {
		case items == 0:
			code.WriteString(def.NeutralSymbol())
		case res.AxisScores[axis] >= threshold:
			code.WriteString(def.High)
		default:
			code.WriteString(def.Low)
		}
	}
	res.TypeCode = code.String()

	return res
}
