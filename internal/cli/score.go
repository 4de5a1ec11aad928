package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/quiz"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/scoring"
)

func newScoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "score <answers.json|->",
		Short: "Classify an answer set and score its reliability",
		Long: `Reads answers as JSON, either a bare array or an object with an
"answers" field, and prints the type code, axis totals and reliability.
Use - to read from stdin.`,
		Example: `  quizctl score answers.json
  quizctl score --format json - < answers.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := opts.loadBank()
			if err != nil {
				return err
			}

			answers, err := readAnswers(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			eval := scoring.Evaluate(answers, bank)
			out := cmd.OutOrStdout()
			if opts.format == FormatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(eval)
			}
			renderEvaluation(out, opts.styles(cmd), bank, eval)
			return nil
		},
	}
}

func readAnswers(stdin io.Reader, path string) ([]quiz.Answer, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	var answers []quiz.Answer
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &answers); err != nil {
			return nil, fmt.Errorf("invalid answers JSON: %w", err)
		}
	} else {
		var wrapped struct {
			Answers []quiz.Answer `json:"answers"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("invalid answers JSON: %w", err)
		}
		answers = wrapped.Answers
	}

	if err := checkAnswers(answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// checkAnswers applies the same bounds the HTTP API binds against.
func checkAnswers(answers []quiz.Answer) error {
	for i, a := range answers {
		if a.Score < quiz.MinScore || a.Score > quiz.MaxScore {
			return fmt.Errorf("answers[%d].score: must be between %d and %d, got %d",
				i, quiz.MinScore, quiz.MaxScore, a.Score)
		}
		if a.TimeSpent < 0 {
			return fmt.Errorf("answers[%d].timeSpent: must not be negative", i)
		}
	}
	return nil
}

func renderEvaluation(w io.Writer, s *Styles, bank *quiz.Bank, eval scoring.Evaluation) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n\n", s.Header.Render("Type"), s.Code.Render(eval.TypeCode))

	b.WriteString(s.Header.Render("Axes") + "\n")
	for _, letter := range bank.AxisOrder() {
		def, _ := bank.Axis(letter)
		name := def.Name
		if name == "" {
			name = letter
		}
		items := eval.AxisItems[letter]
		line := fmt.Sprintf("%d / threshold %d (%d items)", eval.AxisScores[letter], eval.Thresholds[letter], items)
		if items == 0 {
			line = s.Muted.Render("no answers, neutral " + def.NeutralSymbol())
		}
		fmt.Fprintf(&b, "  %s%s\n", s.Label.Render(fmt.Sprintf("%s (%s)", name, letter)), line)
	}

	r := eval.Reliability
	b.WriteString("\n" + s.Header.Render("Reliability") + "\n")
	fmt.Fprintf(&b, "  %s%s\n", s.Label.Render("Score"), patternStyle(s, r.Pattern).Render(fmt.Sprintf("%d (%s)", r.Score, r.Pattern)))
	fmt.Fprintf(&b, "  %s%d\n", s.Label.Render("Reverse item consistency"), r.Details.ReverseItemConsistency)
	fmt.Fprintf(&b, "  %s%d\n", s.Label.Render("Response variability"), r.Details.ResponseVariability)
	fmt.Fprintf(&b, "  %s%d\n", s.Label.Render("Speed consistency"), r.Details.SpeedConsistency)

	if eval.Dropped > 0 {
		fmt.Fprintf(&b, "\n%s\n", s.Warn.Render(fmt.Sprintf("%d answer(s) referenced unknown questions and were ignored", eval.Dropped)))
	}

	fmt.Fprintln(w, s.Frame(strings.TrimRight(b.String(), "\n")))
}

func patternStyle(s *Styles, p scoring.Pattern) lipgloss.Style {
	switch p {
	case scoring.PatternConsistent:
		return s.Good
	case scoring.PatternInconsistent:
		return s.Warn
	default:
		return s.Bad
	}
}
