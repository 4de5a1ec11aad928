package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/database"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/scoring"
)

type fakeSource struct {
	types     map[string]int
	patterns  map[string]int
	avg       float64
	responses []*database.Response
	calls     int
	err       error
	// midRead runs between the aggregate queries
	midRead func()
}

func (f *fakeSource) TypeDistribution(context.Context, time.Time) (map[string]int, error) {
	f.calls++
	return f.types, f.err
}

func (f *fakeSource) PatternDistribution(context.Context, time.Time) (map[string]int, error) {
	if f.midRead != nil {
		f.midRead()
	}
	return f.patterns, nil
}

func (f *fakeSource) AverageReliability(context.Context, time.Time) (float64, error) {
	return f.avg, nil
}

func (f *fakeSource) EachResponse(_ context.Context, filter database.ListFilter, fn func(*database.Response) error) error {
	for _, r := range f.responses {
		if filter.TypeCode != "" && r.TypeCode != filter.TypeCode {
			continue
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

type countingMetrics struct{ hits, misses int }

func (c *countingMetrics) IncrementCacheHit()  { c.hits++ }
func (c *countingMetrics) IncrementCacheMiss() { c.misses++ }

func TestSummarySortsAndShares(t *testing.T) {
	src := &fakeSource{
		types:    map[string]int{"RPN": 2, "ASC": 5, "APC": 2, "RSN": 1},
		patterns: map[string]int{"consistent": 7, "random": 3},
		avg:      72.5,
	}
	svc := NewService(src, time.Minute, nil, nil)
	defer svc.Close()

	summary, err := svc.Summary(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 10, summary.Total)
	require.Len(t, summary.Types, 4)
	assert.Equal(t, []string{"ASC", "APC", "RPN", "RSN"}, []string{
		summary.Types[0].TypeCode, summary.Types[1].TypeCode, summary.Types[2].TypeCode, summary.Types[3].TypeCode,
	})
	assert.InDelta(t, 0.5, summary.Types[0].Share, 1e-9)

	total := 0.0
	for _, ts := range summary.Types {
		total += ts.Share
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	assert.Equal(t, 7, summary.Patterns["consistent"])
	assert.Equal(t, 72.5, summary.AverageReliability)
	assert.Nil(t, summary.Since)
}

func TestSummaryEmpty(t *testing.T) {
	svc := NewService(&fakeSource{types: map[string]int{}}, time.Minute, nil, nil)
	defer svc.Close()

	summary, err := svc.Summary(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.Types)
}

func TestSummaryIsCachedUntilInvalidated(t *testing.T) {
	src := &fakeSource{types: map[string]int{"ASC": 1}}
	metrics := &countingMetrics{}
	svc := NewService(src, time.Minute, metrics, nil)
	defer svc.Close()

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s, err := svc.Summary(context.Background(), since)
		require.NoError(t, err)
		require.NotNil(t, s.Since)
		assert.True(t, since.Equal(*s.Since))
	}
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 2, metrics.hits)

	svc.Invalidate()
	_, err := svc.Summary(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestSummaryNotCachedAcrossInvalidate(t *testing.T) {
	src := &fakeSource{types: map[string]int{"ASC": 1}}
	svc := NewService(src, time.Minute, nil, nil)
	defer svc.Close()

	src.midRead = func() {
		src.types = map[string]int{"ASC": 2}
		svc.Invalidate()
	}
	first, err := svc.Summary(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Total)

	src.midRead = nil
	second, err := svc.Summary(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, 2, second.Total)
}

func TestSummaryPropagatesErrors(t *testing.T) {
	svc := NewService(&fakeSource{err: errors.New("db down")}, time.Minute, nil, nil)
	defer svc.Close()

	_, err := svc.Summary(context.Background(), time.Time{})
	assert.ErrorContains(t, err, "db down")
}

func TestExportCSV(t *testing.T) {
	at := time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)
	src := &fakeSource{responses: []*database.Response{
		{
			ID:         "r-1",
			TypeCode:   "ASC",
			AxisScores: map[string]int{"C": 6, "E": 7, "P": 4},
			Reliability: scoring.ReliabilityReport{
				Score:   88,
				Pattern: scoring.PatternConsistent,
				Details: scoring.Details{ReverseItemConsistency: 90, ResponseVariability: 85, SpeedConsistency: 80},
			},
			Email:     "a@example.com, b",
			Source:    "facebook",
			CreatedAt: at,
		},
		{ID: "r-2", TypeCode: "RPN", AxisScores: map[string]int{"E": 3}, CreatedAt: at},
	}}
	svc := NewService(src, time.Minute, nil, []string{"E", "P", "C"})
	defer svc.Close()

	var buf bytes.Buffer
	n, err := svc.ExportCSV(context.Background(), &buf, database.ListFilter{TypeCode: "ASC"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ExportHeader, records[0])
	assert.Equal(t, []string{
		"r-1", "2026-06-01T08:30:00Z", "ASC", "88", "consistent",
		"90", "85", "80", "0", "a@example.com, b", "facebook", "E=7;P=4;C=6",
	}, records[1])
}

func TestFormatAxisScores(t *testing.T) {
	assert.Equal(t, "E=7;P=4", FormatAxisScores(map[string]int{"P": 4, "E": 7}, []string{"E", "P"}))
	assert.Equal(t, "A=1;Z=2", FormatAxisScores(map[string]int{"Z": 2, "A": 1}, nil))
	assert.Equal(t, "", FormatAxisScores(nil, []string{"E"}))
}
