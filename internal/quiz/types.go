package quiz

// Likert scale used by every question in the bank.
const (
	MinScore = 1
	MaxScore = 5
	MidScore = 3
)

// DefaultNeutral is emitted for an axis that received no answers.
const DefaultNeutral = "X"

// Question is a single bank item. Text is presentational only.
type Question struct {
	ID        int    `json:"id" yaml:"id"`
	Axis      string `json:"axis" yaml:"axis"`
	IsReverse bool   `json:"isReverse" yaml:"reverse"`
	Text      string `json:"text,omitempty" yaml:"text"`
}

// Answer is one submitted response. TimeSpent is in milliseconds.
type Answer struct {
	QuestionID int   `json:"questionId"`
	Score      int   `json:"score"`
	TimeSpent  int64 `json:"timeSpent"`
}

// AxisDef names an axis and the symbols it can resolve to.
type AxisDef struct {
	Letter  string `json:"letter" yaml:"letter"`
	Name    string `json:"name" yaml:"name"`
	High    string `json:"high" yaml:"high"`
	Low     string `json:"low" yaml:"low"`
	Neutral string `json:"neutral,omitempty" yaml:"neutral"`
}

// NeutralSymbol returns the configured neutral symbol or DefaultNeutral.
func (a AxisDef) NeutralSymbol() string {
	if a.Neutral == "" {
		return DefaultNeutral
	}
	return a.Neutral
}
