package database

import (
	"time"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/quiz"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/scoring"
)

// Response is one persisted quiz submission.
type Response struct {
	ID          string                    `json:"id" db:"id"`
	TypeCode    string                    `json:"typeCode" db:"type_code"`
	AxisScores  map[string]int            `json:"axisScores" db:"axis_scores"`
	Reliability scoring.ReliabilityReport `json:"reliability"`
	Dropped     int                       `json:"droppedAnswers" db:"dropped_answers"`
	Answers     []quiz.Answer             `json:"answers" db:"answers"`
	Email       string                    `json:"email,omitempty" db:"email"`
	Source      string                    `json:"source,omitempty" db:"source"`
	IPHash      string                    `json:"-" db:"ip_hash"`
	UserAgent   string                    `json:"-" db:"user_agent"`
	CreatedAt   time.Time                 `json:"createdAt" db:"created_at"`
}

// ListFilter narrows admin listings and exports. Zero values mean "no constraint".
type ListFilter struct {
	Limit    int
	Offset   int
	Since    time.Time
	TypeCode string
	Pattern  string
}

const (
	stmtInsertResponse = "insert_response"
	stmtGetResponse    = "get_response"
	stmtDeleteResponse = "delete_response"

	responseColumns = `id, type_code, axis_scores, reliability_score, reliability_pattern,
		reverse_item_consistency, response_variability, speed_consistency,
		dropped_answers, answers, email, source, ip_hash, user_agent, created_at`

	// DefaultListLimit and MaxListLimit bound admin page sizes.
	DefaultListLimit = 50
	MaxListLimit     = 500
)
