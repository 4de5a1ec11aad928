package quiz

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
)

// Bank is the immutable question bank the engine scores against.
// Build it with DefaultBank, ParseBank or LoadBank and do not mutate it afterwards.
type Bank struct {
	Title     string     `json:"title,omitempty" yaml:"title"`
	Axes      []AxisDef  `json:"axes" yaml:"axes"`
	Questions []Question `json:"questions" yaml:"questions"`

	byID  map[int]Question
	order []string
	axes  map[string]AxisDef
	items map[string]int
}

// NewBank indexes axes and questions. It does not validate; call Validate for that.
func NewBank(title string, axes []AxisDef, questions []Question) *Bank {
	b := &Bank{Title: title, Axes: axes, Questions: questions}
	b.index()
	return b
}

func (b *Bank) index() {
	b.byID = make(map[int]Question, len(b.Questions))
	b.axes = make(map[string]AxisDef, len(b.Axes))
	b.items = make(map[string]int)
	b.order = b.order[:0]

	seen := make(map[string]bool)
	for _, a := range b.Axes {
		if seen[a.Letter] {
			continue
		}
		seen[a.Letter] = true
		b.axes[a.Letter] = a
		b.order = append(b.order, a.Letter)
	}

	for _, q := range b.Questions {
		if _, dup := b.byID[q.ID]; !dup {
			b.byID[q.ID] = q
		}
		b.items[q.Axis]++
		if !seen[q.Axis] {
			seen[q.Axis] = true
			b.order = append(b.order, q.Axis)
		}
	}
}

// ParseBank decodes a YAML question bank and validates it.
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, apperrors.NewValidationError("question bank is not valid YAML", err)
	}
	b.index()

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// LoadBank reads and parses a YAML question bank file.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank %s: %w", path, err)
	}
	return ParseBank(data)
}

// Validate checks the structural invariants the scoring engine relies on.
func (b *Bank) Validate() error {
	problems := make(map[string]string)

	if len(b.Questions) == 0 {
		problems["questions"] = "question bank has no questions"
	}

	declared := make(map[string]bool, len(b.Axes))
	symbols := func(field, v string) {
		if utf8.RuneCountInString(v) != 1 {
			problems[field] = fmt.Sprintf("must be a single character, got %q", v)
		}
	}
	for i, a := range b.Axes {
		prefix := fmt.Sprintf("axes[%d]", i)
		if utf8.RuneCountInString(a.Letter) != 1 {
			problems[prefix+".letter"] = fmt.Sprintf("must be a single letter, got %q", a.Letter)
		}
		if declared[a.Letter] {
			problems[prefix+".letter"] = fmt.Sprintf("axis %s declared twice", a.Letter)
		}
		declared[a.Letter] = true

		symbols(prefix+".high", a.High)
		symbols(prefix+".low", a.Low)
		if a.Neutral != "" {
			symbols(prefix+".neutral", a.Neutral)
		}
		if a.High != "" && a.High == a.Low {
			problems[prefix+".low"] = "high and low symbols must differ"
		}
	}

	ids := make(map[int]bool, len(b.Questions))
	normal := make(map[string]int)
	for i, q := range b.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		if q.ID <= 0 {
			problems[prefix+".id"] = fmt.Sprintf("id must be positive, got %d", q.ID)
		}
		if ids[q.ID] {
			problems[prefix+".id"] = fmt.Sprintf("duplicate id %d", q.ID)
		}
		ids[q.ID] = true

		if !declared[q.Axis] {
			problems[prefix+".axis"] = fmt.Sprintf("unknown axis %q", q.Axis)
		}
		if !q.IsReverse {
			normal[q.Axis]++
		}
	}

	for i, a := range b.Axes {
		if normal[a.Letter] == 0 {
			problems[fmt.Sprintf("axes[%d]", i)] = fmt.Sprintf("axis %s has no non-reverse question", a.Letter)
		}
	}

	if len(problems) > 0 {
		return apperrors.NewValidationErrorWithMap("invalid question bank", problems)
	}
	return nil
}

// Lookup returns the question with the given id.
func (b *Bank) Lookup(id int) (Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// AxisOrder is the canonical order used to build type codes: declared axes first,
// then axes only referenced by questions in order of first appearance.
func (b *Bank) AxisOrder() []string {
	return append([]string(nil), b.order...)
}

// Axis returns the definition for letter. Undeclared axes get "+"/"-" poles.
func (b *Bank) Axis(letter string) (AxisDef, bool) {
	if a, ok := b.axes[letter]; ok {
		return a, true
	}
	return AxisDef{Letter: letter, High: "+", Low: "-"}, false
}

// ItemCount is the number of bank questions measuring the axis.
func (b *Bank) ItemCount(letter string) int {
	return b.items[letter]
}

// Len is the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.Questions)
}
