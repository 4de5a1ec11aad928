package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
)

// Dialect identifies the SQL flavour behind a DB.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// Config selects and tunes the backing database. An empty URL means the embedded SQLite
// file under DataDir.
type Config struct {
	DataDir      string
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func (c Config) withDefaults() Config {
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 5
	}
	if c.MaxLifetime <= 0 {
		c.MaxLifetime = 5 * time.Minute
	}
	return c
}

// DB represents the database connection with pooling
type DB struct {
	*sql.DB
	dialect  Dialect
	pool     *ConnectionPool
	prepared map[string]*sql.Stmt
	mutex    sync.RWMutex
}

// ConnectionPool manages database connection pooling
type ConnectionPool struct {
	db           *sql.DB
	maxOpenConns int
	maxIdleConns int
	maxLifetime  time.Duration
}

// NewConnectionPool applies pool limits to db.
func NewConnectionPool(db *sql.DB, maxOpen, maxIdle int, maxLifetime time.Duration) *ConnectionPool {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	return &ConnectionPool{
		db:           db,
		maxOpenConns: maxOpen,
		maxIdleConns: maxIdle,
		maxLifetime:  maxLifetime,
	}
}

// GetStats returns connection pool statistics
func (cp *ConnectionPool) GetStats() map[string]interface{} {
	stats := cp.db.Stats()

	return map[string]interface{}{
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"max_open_connections": cp.maxOpenConns,
		"max_idle_connections": cp.maxIdleConns,
		"max_lifetime_seconds": cp.maxLifetime.Seconds(),
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

// NewDB opens the configured database, runs migrations and prepares hot statements.
func NewDB(cfg Config) (*DB, error) {
	cfg = cfg.withDefaults()

	driver, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pool := NewConnectionPool(sqlDB, cfg.MaxOpenConns, min(cfg.MaxIdleConns, cfg.MaxOpenConns), cfg.MaxLifetime)

	database := &DB{
		DB:       sqlDB,
		dialect:  driver,
		pool:     pool,
		prepared: make(map[string]*sql.Stmt),
	}

	if err := database.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := database.initPreparedStatements(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize prepared statements: %w", err)
	}

	slog.Info("Database initialized with connection pooling",
		"dialect", driver,
		"max_open_conns", pool.maxOpenConns,
		"max_idle_conns", pool.maxIdleConns,
		"max_lifetime", pool.maxLifetime)

	return database, nil
}

func dataSource(cfg Config) (Dialect, string, error) {
	if cfg.URL != "" {
		if !strings.HasPrefix(cfg.URL, "postgres://") && !strings.HasPrefix(cfg.URL, "postgresql://") {
			return "", "", apperrors.NewConfigurationError("unsupported database url scheme: only postgres:// is accepted", nil)
		}
		return DialectPostgres, cfg.URL, nil
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(cfg.DataDir, "travel_quiz.db")

	return DialectSQLite, dbPath + "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=5000", nil
}

// Dialect reports which SQL flavour this DB speaks.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Rebind converts ? placeholders to $n for Postgres. SQLite queries pass through.
func (db *DB) Rebind(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) migrate() error {
	timestamp := "DATETIME"
	if db.dialect == DialectPostgres {
		timestamp = "TIMESTAMPTZ"
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS quiz_responses (
			id TEXT PRIMARY KEY,
			type_code TEXT NOT NULL,
			axis_scores TEXT NOT NULL, -- JSON object axis -> accumulated score
			reliability_score INTEGER NOT NULL,
			reliability_pattern TEXT NOT NULL,
			reverse_item_consistency INTEGER NOT NULL,
			response_variability INTEGER NOT NULL,
			speed_consistency INTEGER NOT NULL,
			dropped_answers INTEGER NOT NULL DEFAULT 0,
			answers TEXT NOT NULL, -- JSON array of raw answers
			email TEXT,
			source TEXT,
			ip_hash TEXT,
			user_agent TEXT,
			created_at ` + timestamp + ` NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_quiz_responses_created ON quiz_responses(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_responses_type ON quiz_responses(type_code)`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_responses_pattern ON quiz_responses(reliability_pattern)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

func (db *DB) initPreparedStatements() error {
	statements := map[string]string{
		stmtInsertResponse: `INSERT INTO quiz_responses (
			id, type_code, axis_scores, reliability_score, reliability_pattern,
			reverse_item_consistency, response_variability, speed_consistency,
			dropped_answers, answers, email, source, ip_hash, user_agent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		stmtGetResponse: `SELECT ` + responseColumns + ` FROM quiz_responses WHERE id = ?`,

		stmtDeleteResponse: `DELETE FROM quiz_responses WHERE id = ?`,
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, query := range statements {
		stmt, err := db.Prepare(db.Rebind(query))
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %w", name, err)
		}
		db.prepared[name] = stmt

		slog.Debug("Prepared statement initialized", "name", name)
	}

	return nil
}

// GetPreparedStatement retrieves a prepared statement
func (db *DB) GetPreparedStatement(name string) (*sql.Stmt, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	stmt, exists := db.prepared[name]
	if !exists {
		return nil, fmt.Errorf("prepared statement %s not found", name)
	}

	return stmt, nil
}

// GetPoolStats returns database connection pool statistics
func (db *DB) GetPoolStats() map[string]interface{} {
	stats := db.pool.GetStats()
	stats["dialect"] = string(db.dialect)
	return stats
}

// Close closes prepared statements and the connection.
func (db *DB) Close() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, stmt := range db.prepared {
		if err := stmt.Close(); err != nil {
			slog.Warn("Failed to close prepared statement", "name", name, "error", err)
		}
	}
	db.prepared = make(map[string]*sql.Stmt)

	return db.DB.Close()
}
