// Package types holds the HTTP request and response bodies of the quiz API.
package types

import (
	"time"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/database"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/quiz"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/scoring"
)

// MaxAnswers bounds the answers accepted in one request
const MaxAnswers = 200

// AnswerInput is one answer as sent by the quiz client.
// Unknown question ids are accepted; the engine drops them.
type AnswerInput struct {
	QuestionID int   `json:"questionId" example:"1"`
	Score      int   `json:"score" binding:"min=1,max=5" example:"4"`
	TimeSpent  int64 `json:"timeSpent" binding:"min=0" example:"5200"`
}

// ScoreRequest represents the request structure for the stateless score endpoint
type ScoreRequest struct {
	Answers []AnswerInput `json:"answers" binding:"required,min=1,max=200,dive"`
}

// SubmissionRequest is a completed quiz run plus optional lead details
type SubmissionRequest struct {
	Answers []AnswerInput `json:"answers" binding:"required,min=1,max=200,dive"`
	Email   string        `json:"email,omitempty" binding:"omitempty,email,max=254" example:"parent@example.com"`
	Source  string        `json:"source,omitempty" binding:"omitempty,max=64" example:"facebook"`
}

// ToAnswers converts request answers into engine answers
func ToAnswers(in []AnswerInput) []quiz.Answer {
	out := make([]quiz.Answer, len(in))
	for i, a := range in {
		out[i] = quiz.Answer{QuestionID: a.QuestionID, Score: a.Score, TimeSpent: a.TimeSpent}
	}
	return out
}

// ScoreResponse is the result of scoring answers without storing them
type ScoreResponse struct {
	TypeCode       string                    `json:"typeCode" example:"ASC"`
	AxisScores     map[string]int            `json:"axisScores"`
	DroppedAnswers int                       `json:"droppedAnswers"`
	Reliability    scoring.ReliabilityReport `json:"reliability"`
}

// NewScoreResponse flattens an engine evaluation
func NewScoreResponse(eval scoring.Evaluation) ScoreResponse {
	return ScoreResponse{
		TypeCode:       eval.TypeCode,
		AxisScores:     eval.AxisScores,
		DroppedAnswers: eval.Dropped,
		Reliability:    eval.Reliability,
	}
}

// Scale describes the answer scale shared by every question
type Scale struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// QuestionsResponse is the public question bank
type QuestionsResponse struct {
	Title     string          `json:"title,omitempty"`
	Scale     Scale           `json:"scale"`
	Axes      []quiz.AxisDef  `json:"axes"`
	Questions []quiz.Question `json:"questions"`
}

// NewQuestionsResponse renders a bank for clients
func NewQuestionsResponse(b *quiz.Bank) QuestionsResponse {
	return QuestionsResponse{
		Title:     b.Title,
		Scale:     Scale{Min: quiz.MinScore, Max: quiz.MaxScore},
		Axes:      b.Axes,
		Questions: b.Questions,
	}
}

// LoginRequest carries admin credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=128"`
	Password string `json:"password" binding:"required,max=256"`
}

// LoginResponse carries a bearer token for the admin API
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ResponseList is one page of stored responses
type ResponseList struct {
	Items  []*database.Response `json:"items"`
	Total  int                  `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// PurgeResponse reports a retention purge
type PurgeResponse struct {
	Deleted       int64 `json:"deleted"`
	RetentionDays int   `json:"retentionDays"`
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status    string                 `json:"status" example:"ok"`
	Timestamp string                 `json:"timestamp"`
	Version   string                 `json:"version"`
	BankSize  int                    `json:"bankSize"`
	Database  map[string]interface{} `json:"database"`
	RateLimit map[string]interface{} `json:"rateLimit,omitempty"`
}

// ErrorResponse documents the JSON error body
type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Category  string            `json:"category"`
	Status    int               `json:"http_status"`
	Timestamp time.Time         `json:"timestamp"`
	Fields    map[string]string `json:"fields,omitempty"`
}
