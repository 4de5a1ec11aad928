package quiz

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
)

func TestDefaultBankIsValid(t *testing.T) {
	bank := DefaultBank()

	require.NoError(t, bank.Validate())
	assert.Equal(t, 6, bank.Len())
	assert.Equal(t, []string{"E", "P", "C"}, bank.AxisOrder())

	for _, axis := range bank.AxisOrder() {
		assert.Equal(t, 2, bank.ItemCount(axis), "axis %s", axis)
	}
}

func TestDefaultBankMixesPolarities(t *testing.T) {
	bank := DefaultBank()

	polarity := map[string]map[bool]int{}
	for _, q := range bank.Questions {
		if polarity[q.Axis] == nil {
			polarity[q.Axis] = map[bool]int{}
		}
		polarity[q.Axis][q.IsReverse]++
	}

	for axis, counts := range polarity {
		assert.Positive(t, counts[false], "axis %s needs a normal item", axis)
		assert.Positive(t, counts[true], "axis %s needs a reverse item", axis)
	}
}

func TestLookup(t *testing.T) {
	bank := DefaultBank()

	q, ok := bank.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "E", q.Axis)
	assert.True(t, q.IsReverse)

	_, ok = bank.Lookup(999)
	assert.False(t, ok)
}

func TestAxisFallbackForUndeclaredAxis(t *testing.T) {
	bank := NewBank("", nil, []Question{{ID: 1, Axis: "Z"}})

	assert.Equal(t, []string{"Z"}, bank.AxisOrder())
	def, declared := bank.Axis("Z")
	assert.False(t, declared)
	assert.Equal(t, "+", def.High)
	assert.Equal(t, "-", def.Low)
	assert.Equal(t, DefaultNeutral, def.NeutralSymbol())
}

func TestLoadBank(t *testing.T) {
	bank, err := LoadBank(filepath.Join("testdata", "bank.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Weekend Getaway Style", bank.Title)
	assert.Equal(t, []string{"B", "G"}, bank.AxisOrder())
	assert.Equal(t, 3, bank.ItemCount("B"))
	assert.Equal(t, 2, bank.ItemCount("G"))

	q, ok := bank.Lookup(11)
	require.True(t, ok)
	assert.True(t, q.IsReverse)

	g, ok := bank.Axis("G")
	require.True(t, ok)
	assert.Equal(t, "?", g.NeutralSymbol())
}

func TestLoadBankMissingFile(t *testing.T) {
	_, err := LoadBank(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseBankRejectsInvalidBanks(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{
			name:  "malformed yaml",
			yaml:  "axes: [",
			field: "",
		},
		{
			name: "duplicate question ids",
			yaml: `
axes: [{letter: A, high: X, low: Y}]
questions:
  - {id: 1, axis: A}
  - {id: 1, axis: A, reverse: true}
`,
			field: "questions[1].id",
		},
		{
			name: "non positive id",
			yaml: `
axes: [{letter: A, high: X, low: Y}]
questions:
  - {id: 0, axis: A}
`,
			field: "questions[0].id",
		},
		{
			name: "undeclared axis",
			yaml: `
axes: [{letter: A, high: X, low: Y}]
questions:
  - {id: 1, axis: A}
  - {id: 2, axis: Q}
`,
			field: "questions[1].axis",
		},
		{
			name: "axis with only reverse items",
			yaml: `
axes: [{letter: A, high: X, low: Y}]
questions:
  - {id: 1, axis: A, reverse: true}
`,
			field: "axes[0]",
		},
		{
			name: "multi character pole",
			yaml: `
axes: [{letter: A, high: XX, low: Y}]
questions:
  - {id: 1, axis: A}
`,
			field: "axes[0].high",
		},
		{
			name: "identical poles",
			yaml: `
axes: [{letter: A, high: X, low: X}]
questions:
  - {id: 1, axis: A}
`,
			field: "axes[0].low",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank, err := ParseBank([]byte(tt.yaml))
			require.Error(t, err)
			assert.Nil(t, bank)

			appErr := apperrors.ToAppError(err)
			assert.Equal(t, apperrors.CategoryValidation, appErr.Category)
			if tt.field != "" {
				assert.Contains(t, appErr.Fields, tt.field)
			}
		})
	}
}
