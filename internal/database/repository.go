package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/scoring"
)

// Repository handles quiz response persistence.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// SaveResponse inserts a new response. CreatedAt is stored in UTC at second precision.
func (r *Repository) SaveResponse(ctx context.Context, resp *Response) error {
	axisScores, err := json.Marshal(resp.AxisScores)
	if err != nil {
		return fmt.Errorf("failed to encode axis scores: %w", err)
	}
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	stmt, err := r.db.GetPreparedStatement(stmtInsertResponse)
	if err != nil {
		return err
	}

	resp.CreatedAt = normalizeTime(resp.CreatedAt)
	_, err = stmt.ExecContext(ctx,
		resp.ID, resp.TypeCode, string(axisScores),
		resp.Reliability.Score, string(resp.Reliability.Pattern),
		resp.Reliability.Details.ReverseItemConsistency,
		resp.Reliability.Details.ResponseVariability,
		resp.Reliability.Details.SpeedConsistency,
		resp.Dropped, string(answers),
		nullString(resp.Email), nullString(resp.Source),
		nullString(resp.IPHash), nullString(resp.UserAgent),
		resp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save response: %w", err)
	}

	return nil
}

// GetResponse loads a response by id.
func (r *Repository) GetResponse(ctx context.Context, id string) (*Response, error) {
	stmt, err := r.db.GetPreparedStatement(stmtGetResponse)
	if err != nil {
		return nil, err
	}

	resp, err := scanResponse(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("response", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %w", err)
	}

	return resp, nil
}

// ListResponses returns responses newest first, paged by the filter.
func (r *Repository) ListResponses(ctx context.Context, filter ListFilter) ([]*Response, error) {
	where, args := filterClause(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(filter.Offset, 0)

	query := `SELECT ` + responseColumns + ` FROM quiz_responses` + where +
		` ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	defer rows.Close()

	responses := make([]*Response, 0, limit)
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		responses = append(responses, resp)
	}

	return responses, rows.Err()
}

// EachResponse streams every response matching the filter, ignoring Limit and Offset.
func (r *Repository) EachResponse(ctx context.Context, filter ListFilter, fn func(*Response) error) error {
	where, args := filterClause(filter)
	query := `SELECT ` + responseColumns + ` FROM quiz_responses` + where + ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return fmt.Errorf("failed to scan response: %w", err)
		}
		if err := fn(resp); err != nil {
			return err
		}
	}

	return rows.Err()
}

// CountResponses counts responses matching the filter, ignoring Limit and Offset.
func (r *Repository) CountResponses(ctx context.Context, filter ListFilter) (int, error) {
	where, args := filterClause(filter)

	var count int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT COUNT(*) FROM quiz_responses`+where), args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}

	return count, nil
}

// TypeDistribution counts responses per type code since the given time.
func (r *Repository) TypeDistribution(ctx context.Context, since time.Time) (map[string]int, error) {
	return r.groupCount(ctx, "type_code", since)
}

// PatternDistribution counts responses per reliability pattern since the given time.
func (r *Repository) PatternDistribution(ctx context.Context, since time.Time) (map[string]int, error) {
	return r.groupCount(ctx, "reliability_pattern", since)
}

func (r *Repository) groupCount(ctx context.Context, column string, since time.Time) (map[string]int, error) {
	where, args := filterClause(ListFilter{Since: since})
	query := `SELECT ` + column + `, COUNT(*) FROM quiz_responses` + where + ` GROUP BY ` + column

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to group responses by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("failed to scan %s bucket: %w", column, err)
		}
		counts[key] = n
	}

	return counts, rows.Err()
}

// AverageReliability is the mean reliability score since the given time, 0 when empty.
func (r *Repository) AverageReliability(ctx context.Context, since time.Time) (float64, error) {
	where, args := filterClause(ListFilter{Since: since})

	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		r.db.Rebind(`SELECT AVG(reliability_score) FROM quiz_responses`+where), args...).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to average reliability: %w", err)
	}

	return avg.Float64, nil
}

// DeleteResponse removes one response. Missing ids yield a not found error.
func (r *Repository) DeleteResponse(ctx context.Context, id string) error {
	stmt, err := r.db.GetPreparedStatement(stmtDeleteResponse)
	if err != nil {
		return err
	}

	res, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete response: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFoundError("response", id)
	}

	return nil
}

// DeleteOlderThan removes responses created before cutoff and reports how many went.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM quiz_responses WHERE created_at < ?`), normalizeTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to purge responses: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged responses: %w", err)
	}

	return n, nil
}

// GetPoolStats exposes the underlying pool statistics for health checks.
func (r *Repository) GetPoolStats() map[string]interface{} {
	return r.db.GetPoolStats()
}

// Ping checks the connection is alive.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func filterClause(filter ListFilter) (string, []any) {
	var conds []string
	var args []any

	if !filter.Since.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, normalizeTime(filter.Since))
	}
	if filter.TypeCode != "" {
		conds = append(conds, "type_code = ?")
		args = append(args, filter.TypeCode)
	}
	if filter.Pattern != "" {
		conds = append(conds, "reliability_pattern = ?")
		args = append(args, filter.Pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanResponse(row rowScanner) (*Response, error) {
	var (
		resp                         Response
		axisScores, answers, pattern string
		email, source, ipHash, agent sql.NullString
	)

	err := row.Scan(
		&resp.ID, &resp.TypeCode, &axisScores,
		&resp.Reliability.Score, &pattern,
		&resp.Reliability.Details.ReverseItemConsistency,
		&resp.Reliability.Details.ResponseVariability,
		&resp.Reliability.Details.SpeedConsistency,
		&resp.Dropped, &answers,
		&email, &source, &ipHash, &agent,
		&resp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	resp.Reliability.Pattern = scoring.Pattern(pattern)
	resp.Email = email.String
	resp.Source = source.String
	resp.IPHash = ipHash.String
	resp.UserAgent = agent.String
	resp.CreatedAt = resp.CreatedAt.UTC()

	if err := json.Unmarshal([]byte(axisScores), &resp.AxisScores); err != nil {
		return nil, fmt.Errorf("failed to decode axis scores for %s: %w", resp.ID, err)
	}
	if err := json.Unmarshal([]byte(answers), &resp.Answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers for %s: %w", resp.ID, err)
	}

	return &resp, nil
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
