package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/scoring"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const highRun = `[
	{"questionId":1,"score":5,"timeSpent":4000},
	{"questionId":2,"score":1,"timeSpent":4500},
	{"questionId":3,"score":5,"timeSpent":3800},
	{"questionId":4,"score":1,"timeSpent":4200},
	{"questionId":5,"score":5,"timeSpent":4100},
	{"questionId":6,"score":1,"timeSpent":3900}
]`

func TestScoreTerminalOutput(t *testing.T) {
	path := writeFile(t, "answers.json", highRun)

	out, err := run(t, "", "score", path)
	require.NoError(t, err)
	assert.Contains(t, out, "APC")
	assert.Contains(t, out, "Energy (E)")
	assert.Contains(t, out, "10 / threshold 6 (2 items)")
	assert.Contains(t, out, "Reliability")
	assert.NotContains(t, out, "unknown questions")
}

func TestScoreJSONFromStdin(t *testing.T) {
	in := `{"answers":[{"questionId":1,"score":2,"timeSpent":3000},{"questionId":42,"score":3,"timeSpent":3000}]}`

	out, err := run(t, in, "score", "--json", "-")
	require.NoError(t, err)

	var eval scoring.Evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &eval))
	assert.Equal(t, "RXX", eval.TypeCode)
	assert.Equal(t, 1, eval.Dropped)
	assert.Equal(t, 2, eval.AxisScores["E"])
}

func TestScoreReportsDroppedAnswers(t *testing.T) {
	out, err := run(t, `[{"questionId":99,"score":3}]`, "score", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "XXX")
	assert.Contains(t, out, "1 answer(s) referenced unknown questions")
	assert.Contains(t, out, "no answers, neutral X")
}

func TestScoreErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"missing file", "", []string{"score", "/does/not/exist.json"}},
		{"bad json", "{", []string{"score", "-"}},
		{"no argument", "", []string{"score"}},
		{"unknown format", highRun, []string{"score", "--format", "xml", "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestScoreRejectsOutOfRangeAnswers(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		want  string
	}{
		{"score above scale", `[{"questionId":1,"score":5},{"questionId":2,"score":9}]`, "answers[1].score"},
		{"score below scale", `{"answers":[{"questionId":1,"score":-20}]}`, "answers[0].score"},
		{"zero score", `[{"questionId":1,"score":0}]`, "answers[0].score"},
		{"negative time", `[{"questionId":1,"score":3,"timeSpent":-1}]`, "answers[0].timeSpent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, "score", "--json", "-")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestScoreWithCustomBank(t *testing.T) {
	out, err := run(t, `[{"questionId":10,"score":5,"timeSpent":4000}]`,
		"score", "--bank", "../quiz/testdata/bank.yaml", "-f", "json", "-")
	require.NoError(t, err)

	var eval scoring.Evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &eval))
	assert.Equal(t, 0, eval.Dropped)
	assert.Len(t, eval.TypeCode, len(eval.AxisScores))
}

func TestBankValidate(t *testing.T) {
	out, err := run(t, "", "bank", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: 3 axes, 6 questions")

	bad := writeFile(t, "bad.yaml", `axes:
  - {letter: E, name: Energy, high: A, low: A}
questions:
  - {id: 1, axis: Q, text: "Orphan"}
`)
	out, err = run(t, "", "bank", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, out, "ERROR: axes[0].low: high and low symbols must differ")
	assert.Contains(t, out, "questions[0].axis")
}

func TestBankShow(t *testing.T) {
	out, err := run(t, "", "bank", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Family Travel Type")
	assert.Contains(t, out, "Planning")
	assert.Contains(t, out, "high A / low R / neutral X, 2 items")

	out, err = run(t, "", "bank", "show", "-f", "json")
	require.NoError(t, err)
	var bank struct {
		Questions []json.RawMessage `json:"questions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &bank))
	assert.Len(t, bank.Questions, 6)
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "s3cret\n", "hash-password", "--cost", "4")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err = run(t, "\n", "hash-password", "--cost", "4")
	assert.Error(t, err)

	_, err = run(t, "pw\n", "hash-password", "--cost", "99")
	assert.Error(t, err)

	out, err = run(t, "", "hash-password", "--cost", "4", "from-arg")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("from-arg")))
}

func TestPlainStylesLeaveTextUnchanged(t *testing.T) {
	s := NewStyles(false)
	assert.Equal(t, "APC", s.Code.Render("APC"))
	assert.Equal(t, "line one\nline", s.Frame("line one\nline"))
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
