package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fullRun = []byte(`{"answers":[
	{"questionId":1,"score":5,"timeSpent":4100},
	{"questionId":2,"score":1,"timeSpent":3900},
	{"questionId":3,"score":4,"timeSpent":5200},
	{"questionId":4,"score":2,"timeSpent":4800},
	{"questionId":5,"score":3,"timeSpent":6100},
	{"questionId":6,"score":3,"timeSpent":4400}]}`)

func scoreRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quiz/score", bytes.NewReader(fullRun))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestScoreEndpoint_LoadTest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping load test in short mode")
	}

	a := newTestApp(t, nil)

	const numRequests = 500
	const numConcurrent = 10

	durations := make([]time.Duration, 0, numRequests)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < numConcurrent; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numRequests/numConcurrent; j++ {
				start := time.Now()
				w := serve(a, scoreRequest())
				d := time.Since(start)

				assert.Equal(t, http.StatusOK, w.Code)
				mu.Lock()
				durations = append(durations, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, durations, numRequests)
	p := calculatePercentiles(durations, 50, 95, 99)
	t.Logf("Score load test: %d requests, p50=%v p95=%v p99=%v", numRequests, p[0], p[1], p[2])

	assert.Less(t, p[1], 100*time.Millisecond, "p95 should stay well under 100ms")
}

func TestScoreEndpoint_ConcurrentResultsAgree(t *testing.T) {
	a := newTestApp(t, nil)

	const workers = 20
	codes := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := serve(a, scoreRequest())
			var body struct {
				TypeCode string `json:"typeCode"`
			}
			if json.Unmarshal(w.Body.Bytes(), &body) == nil {
				codes[i] = body.TypeCode
			}
		}(i)
	}
	wg.Wait()

	for _, c := range codes {
		assert.Equal(t, codes[0], c)
	}
	assert.Len(t, codes[0], 3)
}

func BenchmarkScoreEndpoint(b *testing.B) {
	a := newTestApp(b, nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := serve(a, scoreRequest())
		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

func calculatePercentiles(durations []time.Duration, percentiles ...float64) []time.Duration {
	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	out := make([]time.Duration, len(percentiles))
	for i, p := range percentiles {
		idx := int(float64(len(sorted)-1) * p / 100)
		out[i] = sorted[idx]
	}
	return out
}
