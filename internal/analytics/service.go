package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/cache"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/database"
)

// Source is the read side the analytics service aggregates. *database.Repository satisfies it.
type Source interface {
	TypeDistribution(ctx context.Context, since time.Time) (map[string]int, error)
	PatternDistribution(ctx context.Context, since time.Time) (map[string]int, error)
	AverageReliability(ctx context.Context, since time.Time) (float64, error)
	EachResponse(ctx context.Context, filter database.ListFilter, fn func(*database.Response) error) error
}

// TypeShare is one type code's slice of the responses.
type TypeShare struct {
	TypeCode string  `json:"typeCode"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

// Summary is the admin dashboard overview.
type Summary struct {
	Since              *time.Time     `json:"since,omitempty"`
	Total              int            `json:"total"`
	Types              []TypeShare    `json:"types"`
	Patterns           map[string]int `json:"patterns"`
	AverageReliability float64        `json:"averageReliability"`
	GeneratedAt        time.Time      `json:"generatedAt"`
}

// Service computes dashboard aggregates and exports.
type Service struct {
	source    Source
	cache     *cache.Cache
	metrics   cache.Metrics
	axisOrder []string
	now       func() time.Time

	// generation is bumped by Invalidate so a summary computed across a write is not cached
	generation atomic.Uint64
}

// NewService creates an analytics service. Summaries are cached for ttl; axisOrder fixes
// the column order of exported axis scores.
func NewService(source Source, ttl time.Duration, metrics cache.Metrics, axisOrder []string) *Service {
	return &Service{
		source:    source,
		cache:     cache.NewCache(ttl),
		metrics:   metrics,
		axisOrder: axisOrder,
		now:       time.Now,
	}
}

// Close stops the summary cache sweeper.
func (s *Service) Close() {
	s.cache.Close()
}

func summaryKey(since time.Time) string {
	if since.IsZero() {
		return "summary:all"
	}
	return "summary:" + since.UTC().Format(time.RFC3339)
}

// Summary aggregates responses created at or after since (all time when zero).
func (s *Service) Summary(ctx context.Context, since time.Time) (*Summary, error) {
	key := summaryKey(since)

	var cached Summary
	if s.cache.GetJSON(key, &cached) {
		s.hit()
		return &cached, nil
	}
	s.miss()
	gen := s.generation.Load()

	types, err := s.source.TypeDistribution(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load type distribution: %w", err)
	}
	patterns, err := s.source.PatternDistribution(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern distribution: %w", err)
	}
	avg, err := s.source.AverageReliability(ctx, since)
	if err != nil {
		return nil, err
	}

	summary := buildSummary(types, patterns, avg)
	summary.GeneratedAt = s.now().UTC()
	if !since.IsZero() {
		t := since.UTC()
		summary.Since = &t
	}

	if s.generation.Load() != gen {
		return summary, nil
	}
	if err := s.cache.SetJSON(key, summary); err != nil {
		slog.Warn("Failed to cache analytics summary", "error", err)
	}

	return summary, nil
}

func buildSummary(types, patterns map[string]int, avg float64) *Summary {
	summary := &Summary{
		Types:              make([]TypeShare, 0, len(types)),
		Patterns:           patterns,
		AverageReliability: avg,
	}

	for code, n := range types {
		summary.Total += n
		summary.Types = append(summary.Types, TypeShare{TypeCode: code, Count: n})
	}

	for i := range summary.Types {
		summary.Types[i].Share = float64(summary.Types[i].Count) / float64(summary.Total)
	}

	sort.Slice(summary.Types, func(i, j int) bool {
		a, b := summary.Types[i], summary.Types[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.TypeCode < b.TypeCode
	})

	return summary
}

// Invalidate drops every cached summary. Call after writes and deletes.
func (s *Service) Invalidate() {
	s.generation.Add(1)
	s.cache.Clear()
}

func (s *Service) hit() {
	if s.metrics != nil {
		s.metrics.IncrementCacheHit()
	}
}

func (s *Service) miss() {
	if s.metrics != nil {
		s.metrics.IncrementCacheMiss()
	}
}
