// Package survey runs one quiz submission end to end: classify, score reliability, persist.
package survey

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/database"
	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/monitoring"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/privacy"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/quiz"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/scoring"
)

// Store persists and loads responses. *database.Repository satisfies it.
type Store interface {
	SaveResponse(ctx context.Context, resp *database.Response) error
	GetResponse(ctx context.Context, id string) (*database.Response, error)
}

// Invalidator is told when a new response lands so derived aggregates can be dropped.
type Invalidator interface {
	Invalidate()
}

// Submission is a completed quiz as received from the client.
type Submission struct {
	Answers   []quiz.Answer
	Email     string
	Source    string
	ClientIP  string
	UserAgent string
}

// Result is what a caller gets back for a stored run.
type Result struct {
	ID          string                    `json:"id"`
	TypeCode    string                    `json:"typeCode"`
	AxisScores  map[string]int            `json:"axisScores"`
	Dropped     int                       `json:"droppedAnswers"`
	Reliability scoring.ReliabilityReport `json:"reliability"`
	CreatedAt   time.Time                 `json:"createdAt"`
}

// Service orchestrates scoring and persistence.
type Service struct {
	store   Store
	bank    *quiz.Bank
	metrics *monitoring.Metrics
	logger  *monitoring.Logger

	now          func() time.Time
	idGenerator  func() string
	invalidators []Invalidator
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides response id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.idGenerator = gen }
}

// WithInvalidators registers caches dropped after each successful submission.
func WithInvalidators(inv ...Invalidator) Option {
	return func(s *Service) { s.invalidators = append(s.invalidators, inv...) }
}

// NewService wires a survey service.
func NewService(store Store, bank *quiz.Bank, metrics *monitoring.Metrics, logger *monitoring.Logger, opts ...Option) *Service {
	s := &Service{
		store:       store,
		bank:        bank,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
		idGenerator: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bank returns the question bank answers are scored against.
func (s *Service) Bank() *quiz.Bank {
	return s.bank
}

// Evaluate scores answers without storing anything.
func (s *Service) Evaluate(answers []quiz.Answer) scoring.Evaluation {
	eval := scoring.Evaluate(answers, s.bank)

	s.metrics.RecordEvaluation(eval.Dropped)
	s.warnDropped("", eval.Dropped, len(answers))

	return eval
}

// Submit scores and persists a quiz run.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Result, error) {
	eval := scoring.Evaluate(sub.Answers, s.bank)

	resp := &database.Response{
		ID:          s.idGenerator(),
		TypeCode:    eval.TypeCode,
		AxisScores:  eval.AxisScores,
		Reliability: eval.Reliability,
		Dropped:     eval.Dropped,
		Answers:     sub.Answers,
		Email:       sub.Email,
		Source:      sub.Source,
		IPHash:      privacy.HashIdentifier(sub.ClientIP),
		UserAgent:   sub.UserAgent,
		CreatedAt:   s.now(),
	}

	if err := s.store.SaveResponse(ctx, resp); err != nil {
		s.logger.SubmissionLogger(resp.ID, resp.TypeCode, resp.Reliability.Score,
			string(resp.Reliability.Pattern), len(sub.Answers), resp.Dropped, false)
		return nil, apperrors.NewInternalError("failed to store quiz response", err)
	}

	s.metrics.RecordSubmission(resp.TypeCode, string(resp.Reliability.Pattern), resp.Dropped)
	s.logger.SubmissionLogger(resp.ID, resp.TypeCode, resp.Reliability.Score,
		string(resp.Reliability.Pattern), len(sub.Answers), resp.Dropped, true)
	s.warnDropped(resp.ID, resp.Dropped, len(sub.Answers))

	for _, inv := range s.invalidators {
		inv.Invalidate()
	}

	return toResult(resp), nil
}

// Get loads a stored result.
func (s *Service) Get(ctx context.Context, id string) (*Result, error) {
	resp, err := s.store.GetResponse(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, apperrors.NewInternalError("failed to load quiz response", err)
	}
	return toResult(resp), nil
}

// unknown question ids are dropped by the engine; surface them so client bugs get noticed
func (s *Service) warnDropped(id string, dropped, total int) {
	if dropped == 0 {
		return
	}
	s.logger.Warn("Answers reference unknown questions",
		"response_id", id,
		"dropped_answers", dropped,
		"answer_count", total,
		"bank_size", s.bank.Len(),
	)
}

func toResult(resp *database.Response) *Result {
	return &Result{
		ID:          resp.ID,
		TypeCode:    resp.TypeCode,
		AxisScores:  resp.AxisScores,
		Dropped:     resp.Dropped,
		Reliability: resp.Reliability,
		CreatedAt:   resp.CreatedAt,
	}
}
