// Package storage persists the exchange history in SQLite or PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Common errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrUnknownDialect = errors.New("unknown sql dialect")
)

// Dialect selects dialect-specific DDL.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Open opens and pings a database for driver ("sqlite3" or "postgres").
func Open(ctx context.Context, driver, dsn string, maxOpenConns int) (*sql.DB, error) {
	switch Dialect(driver) {
	case DialectSQLite, DialectPostgres:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if Dialect(driver) == DialectSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	} else if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

var schemas = map[Dialect]string{
	DialectSQLite: `
		CREATE TABLE IF NOT EXISTS exchanges (
			id TEXT PRIMARY KEY,
			request_id TEXT NOT NULL,
			user_type TEXT NOT NULL,
			department TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			match_phase TEXT NOT NULL,
			match_count INTEGER NOT NULL DEFAULT 0,
			fallback BOOLEAN NOT NULL DEFAULT 0,
			cached BOOLEAN NOT NULL DEFAULT 0,
			latency_ms INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_exchanges_created_at ON exchanges (created_at);
	`,
	DialectPostgres: `
		CREATE TABLE IF NOT EXISTS exchanges (
			id UUID PRIMARY KEY,
			request_id TEXT NOT NULL,
			user_type TEXT NOT NULL,
			department TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			match_phase TEXT NOT NULL,
			match_count INTEGER NOT NULL DEFAULT 0,
			fallback BOOLEAN NOT NULL DEFAULT FALSE,
			cached BOOLEAN NOT NULL DEFAULT FALSE,
			latency_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_exchanges_created_at ON exchanges (created_at);
	`,
}

// ExchangeRepository handles exchange history operations.
type ExchangeRepository struct {
	db      DB
	dialect Dialect
}

// NewExchangeRepository creates a new exchange repository.
func NewExchangeRepository(db DB, dialect Dialect) *ExchangeRepository {
	return &ExchangeRepository{db: db, dialect: dialect}
}

// EnsureSchema creates the exchanges table if it does not exist.
func (r *ExchangeRepository) EnsureSchema(ctx context.Context) error {
	ddl, ok := schemas[r.dialect]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDialect, r.dialect)
	}
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create exchanges schema: %w", err)
	}
	return nil
}

// Create records an exchange.
func (r *ExchangeRepository) Create(ctx context.Context, ex *Exchange) error {
	if ex.ID == uuid.Nil {
		ex.ID = uuid.New()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO exchanges (id, request_id, user_type, department, role, message,
			match_phase, match_count, fallback, cached, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		ex.ID.String(), ex.RequestID, ex.UserType, ex.Department, ex.Role, ex.Message,
		ex.MatchPhase, ex.MatchCount, ex.Fallback, ex.Cached, ex.LatencyMs, ex.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert exchange: %w", err)
	}
	return nil
}

// GetByID retrieves an exchange by ID.
func (r *ExchangeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Exchange, error) {
	query := `
		SELECT id, request_id, user_type, department, role, message,
			match_phase, match_count, fallback, cached, latency_ms, created_at
		FROM exchanges WHERE id = $1
	`
	ex, err := scanExchange(r.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return ex, err
}

// ListRecent returns up to limit exchanges, newest first.
func (r *ExchangeRepository) ListRecent(ctx context.Context, limit int) ([]*Exchange, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, request_id, user_type, department, role, message,
			match_phase, match_count, fallback, cached, latency_ms, created_at
		FROM exchanges
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	defer rows.Close()

	var out []*Exchange
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

// CountByPhase aggregates exchanges by match phase.
func (r *ExchangeRepository) CountByPhase(ctx context.Context) ([]PhaseCount, error) {
	query := `
		SELECT match_phase, COUNT(*)
		FROM exchanges
		GROUP BY match_phase
		ORDER BY match_phase
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count exchanges: %w", err)
	}
	defer rows.Close()

	var out []PhaseCount
	for rows.Next() {
		var pc PhaseCount
		if err := rows.Scan(&pc.MatchPhase, &pc.Count); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExchange(row rowScanner) (*Exchange, error) {
	ex := &Exchange{}
	var id string
	err := row.Scan(
		&id, &ex.RequestID, &ex.UserType, &ex.Department, &ex.Role, &ex.Message,
		&ex.MatchPhase, &ex.MatchCount, &ex.Fallback, &ex.Cached, &ex.LatencyMs, &ex.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if ex.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse exchange id: %w", err)
	}
	return ex, nil
}
