package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/quiz"
)

func pairBank() *quiz.Bank {
	return quiz.NewBank("pair",
		[]quiz.AxisDef{{Letter: "A", High: "H", Low: "L"}},
		[]quiz.Question{
			{ID: 1, Axis: "A"},
			{ID: 2, Axis: "A", IsReverse: true},
		},
	)
}

func TestReverseScore(t *testing.T) {
	tests := []struct {
		name     string
		raw      int
		expected int
	}{
		{name: "low end", raw: 1, expected: 5},
		{name: "two", raw: 2, expected: 4},
		{name: "midpoint is fixed", raw: 3, expected: 3},
		{name: "four", raw: 4, expected: 2},
		{name: "high end", raw: 5, expected: 1},
		{name: "clamps below range", raw: 0, expected: 5},
		{name: "clamps above range", raw: 9, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReverseScore(tt.raw, quiz.MaxScore))
		})
	}
}

func TestEffectiveScoreReverseItem(t *testing.T) {
	q := quiz.Question{ID: 7, Axis: "A", IsReverse: true}
	for s := quiz.MinScore; s <= quiz.MaxScore; s++ {
		assert.Equal(t, 6-s, EffectiveScore(q, s), "raw %d", s)
	}

	normal := quiz.Question{ID: 8, Axis: "A"}
	assert.Equal(t, 4, EffectiveScore(normal, 4))
}

func TestEffectiveScoreClampsBothPolarities(t *testing.T) {
	normal := quiz.Question{ID: 1, Axis: "A"}
	reverse := quiz.Question{ID: 2, Axis: "A", IsReverse: true}

	assert.Equal(t, quiz.MaxScore, EffectiveScore(normal, 9))
	assert.Equal(t, quiz.MinScore, EffectiveScore(normal, -20))
	assert.Equal(t, quiz.MinScore, EffectiveScore(reverse, 9))
	assert.Equal(t, quiz.MaxScore, EffectiveScore(reverse, -20))

	res := ClassifyDetailed([]quiz.Answer{
		{QuestionID: 1, Score: 9},
		{QuestionID: 2, Score: 9},
	}, pairBank())
	assert.Equal(t, 6, res.AxisScores["A"])
	assert.Equal(t, "H", res.TypeCode)
}

func TestClassifyThresholdCountsAnsweredItemsOnly(t *testing.T) {
	bank := pairBank()
	require.Equal(t, 2, bank.ItemCount("A"))

	res := ClassifyDetailed([]quiz.Answer{{QuestionID: 1, Score: 3}}, bank)
	assert.Equal(t, 1, res.AxisItems["A"])
	assert.Equal(t, 3, res.Thresholds["A"])
	assert.Equal(t, "H", res.TypeCode)

	res = ClassifyDetailed([]quiz.Answer{{QuestionID: 2, Score: 4}}, bank)
	assert.Equal(t, 2, res.AxisScores["A"])
	assert.Equal(t, 3, res.Thresholds["A"])
	assert.Equal(t, "L", res.TypeCode)
}

func TestClassifyPairScenario(t *testing.T) {
	answers := []quiz.Answer{
		{QuestionID: 1, Score: 5, TimeSpent: 5000},
		{QuestionID: 2, Score: 1, TimeSpent: 5000},
	}

	res := ClassifyDetailed(answers, pairBank())

	assert.Equal(t, "H", res.TypeCode)
	assert.Equal(t, 10, res.AxisScores["A"])
	assert.Equal(t, 2, res.AxisItems["A"])
	assert.Equal(t, 6, res.Thresholds["A"])
	assert.Zero(t, res.Dropped)
}

func TestClassifyThresholdBoundary(t *testing.T) {
	bank := quiz.NewBank("",
		[]quiz.AxisDef{{Letter: "A", High: "H", Low: "L"}},
		[]quiz.Question{{ID: 1, Axis: "A"}},
	)

	assert.Equal(t, "H", Classify([]quiz.Answer{{QuestionID: 1, Score: 3}}, bank), "exactly at threshold")
	assert.Equal(t, "L", Classify([]quiz.Answer{{QuestionID: 1, Score: 2}}, bank), "one below threshold")
}

func TestClassifyDefaultBank(t *testing.T) {
	answers := []quiz.Answer{
		{QuestionID: 1, Score: 5},
		{QuestionID: 2, Score: 1},
		{QuestionID: 3, Score: 1},
		{QuestionID: 4, Score: 5},
		{QuestionID: 5, Score: 5},
		{QuestionID: 6, Score: 1},
	}

	res := ClassifyDetailed(answers, quiz.DefaultBank())

	assert.Equal(t, "ASC", res.TypeCode)
	assert.Equal(t, map[string]int{"E": 10, "P": 2, "C": 10}, res.AxisScores)
}

func TestClassifyIgnoresUnknownQuestion(t *testing.T) {
	bank := pairBank()
	base := []quiz.Answer{
		{QuestionID: 1, Score: 2},
		{QuestionID: 2, Score: 4},
	}
	withUnknown := append([]quiz.Answer{{QuestionID: 99, Score: 5}}, base...)

	want := ClassifyDetailed(base, bank)
	got := ClassifyDetailed(withUnknown, bank)

	assert.Equal(t, want.TypeCode, got.TypeCode)
	assert.Equal(t, want.AxisScores, got.AxisScores)
	assert.Equal(t, 1, got.Dropped)
}

func TestClassifyEmptyAxesUseNeutralSymbol(t *testing.T) {
	assert.Equal(t, "XXX", Classify(nil, quiz.DefaultBank()))

	bank, err := quiz.LoadBank("../quiz/testdata/bank.yaml")
	require.NoError(t, err)

	code := Classify([]quiz.Answer{{QuestionID: 10, Score: 4}}, bank)
	assert.Equal(t, "L?", code)
}

func TestClassifyIsDeterministic(t *testing.T) {
	bank := quiz.DefaultBank()
	answers := []quiz.Answer{
		{QuestionID: 3, Score: 2},
		{QuestionID: 1, Score: 4},
		{QuestionID: 6, Score: 3},
	}

	first := ClassifyDetailed(answers, bank)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyDetailed(answers, bank))
	}
}
