package analytics

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/database"
)

// ExportHeader is the first row of every CSV export.
var ExportHeader = []string{
	"id", "created_at", "type_code", "reliability_score", "reliability_pattern",
	"reverse_item_consistency", "response_variability", "speed_consistency",
	"dropped_answers", "email", "source", "axis_scores",
}

// ExportCSV streams responses matching filter to w, oldest first, and returns the row count.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, filter database.ListFilter) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	rows := 0
	err := s.source.EachResponse(ctx, filter, func(r *database.Response) error {
		rows++
		return cw.Write([]string{
			r.ID,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.TypeCode,
			strconv.Itoa(r.Reliability.Score),
			string(r.Reliability.Pattern),
			strconv.Itoa(r.Reliability.Details.ReverseItemConsistency),
			strconv.Itoa(r.Reliability.Details.ResponseVariability),
			strconv.Itoa(r.Reliability.Details.SpeedConsistency),
			strconv.Itoa(r.Dropped),
			r.Email,
			r.Source,
			FormatAxisScores(r.AxisScores, s.axisOrder),
		})
	})
	if err != nil {
		return rows, fmt.Errorf("failed to export responses: %w", err)
	}

	cw.Flush()
	return rows, cw.Error()
}

// FormatAxisScores renders scores as "E=7;P=4;C=6": axes in order first, the rest sorted.
func FormatAxisScores(scores map[string]int, order []string) string {
	seen := make(map[string]bool, len(order))
	keys := make([]string, 0, len(scores))
	for _, axis := range order {
		if _, ok := scores[axis]; ok && !seen[axis] {
			keys = append(keys, axis)
			seen[axis] = true
		}
	}

	var rest []string
	for axis := range scores {
		if !seen[axis] {
			rest = append(rest, axis)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	parts := make([]string, len(keys))
	for i, axis := range keys {
		parts[i] = axis + "=" + strconv.Itoa(scores[axis])
	}
	return strings.Join(parts, ";")
}
