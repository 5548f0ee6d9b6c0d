// Package sqlite provides a SQLite-backed engagement ledger.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/UladRH/quotes-assignment-task/pkg/stats"
)

// Config holds configuration for the SQLite ledger driver.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// SmoothingAlpha and SmoothingBeta are the Bayesian pseudo-counts used
	// when scoring high-rated candidates.
	SmoothingAlpha float64
	SmoothingBeta  float64

	// CandidatePoolSize is the number of top-scoring rows randomized over.
	CandidatePoolSize int
}

// SQLiteDriver implements stats.Driver on a SQLite database.
type SQLiteDriver struct {
	db     *sql.DB
	config Config
	logger *zap.Logger
}

// NewSQLiteDriver opens (or creates) the ledger database and ensures the
// schema exists.
func NewSQLiteDriver(c Config, logger *zap.Logger) (*SQLiteDriver, error) {
	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if c.CandidatePoolSize <= 0 {
		return nil, fmt.Errorf("candidate pool size must be positive")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", stats.ErrConnection, err)
	}

	// The whole like/unlike sequence runs in one transaction; a single
	// connection keeps ":memory:" databases coherent across the pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enabling foreign keys: %v", stats.ErrConnection, err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS quote_stats (
			quote_id TEXT PRIMARY KEY,
			likes_count INTEGER NOT NULL DEFAULT 0 CHECK (likes_count >= 0),
			impressions_count INTEGER NOT NULL DEFAULT 0 CHECK (impressions_count >= 0)
		);
		CREATE TABLE IF NOT EXISTS user_liked_quotes (
			user_id TEXT NOT NULL,
			quote_id TEXT NOT NULL,
			liked_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, quote_id)
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}

	logger.Info("sqlite ledger initialized",
		zap.String("db_path", c.DBPath),
		zap.Int("candidate_pool_size", c.CandidatePoolSize),
	)

	return &SQLiteDriver{
		db:     db,
		config: c,
		logger: logger,
	}, nil
}

// Like inserts the membership row unless it already exists and, when the
// insert happened, increments likes_count atomically. Runs as one
// transaction so concurrent likes never lose or double-count an increment.
func (d *SQLiteDriver) Like(ctx context.Context, actorID, quoteID string) (*stats.MutationResult, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO user_liked_quotes (user_id, quote_id)
		VALUES (?, ?)
		ON CONFLICT (user_id, quote_id) DO NOTHING
	`, actorID, quoteID)
	if err != nil {
		return nil, fmt.Errorf("inserting like membership: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("reading insert result: %w", err)
	}

	if inserted > 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO quote_stats (quote_id, likes_count)
			VALUES (?, 1)
			ON CONFLICT (quote_id) DO UPDATE SET likes_count = likes_count + 1
		`, quoteID); err != nil {
			return nil, fmt.Errorf("incrementing likes count: %w", err)
		}
	}

	result, err := d.readCounters(ctx, tx, quoteID)
	if err != nil {
		return nil, err
	}
	result.Changed = inserted > 0

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return result, nil
}

// Unlike deletes the membership row and, when a row was deleted, decrements
// likes_count clamped at a floor of zero.
func (d *SQLiteDriver) Unlike(ctx context.Context, actorID, quoteID string) (*stats.MutationResult, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM user_liked_quotes
		WHERE user_id = ? AND quote_id = ?
	`, actorID, quoteID)
	if err != nil {
		return nil, fmt.Errorf("deleting like membership: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("reading delete result: %w", err)
	}

	if deleted > 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE quote_stats
			SET likes_count = MAX(likes_count - 1, 0)
			WHERE quote_id = ?
		`, quoteID); err != nil {
			return nil, fmt.Errorf("decrementing likes count: %w", err)
		}
	}

	result, err := d.readCounters(ctx, tx, quoteID)
	if err != nil {
		return nil, err
	}
	result.Changed = deleted > 0

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return result, nil
}

// RecordImpression upserts the stats row, creating it with a count of one
// on first sight.
func (d *SQLiteDriver) RecordImpression(ctx context.Context, quoteID string) error {
	if _, err := d.db.ExecContext(ctx, `
		INSERT INTO quote_stats (quote_id, impressions_count)
		VALUES (?, 1)
		ON CONFLICT (quote_id) DO UPDATE SET impressions_count = impressions_count + 1
	`, quoteID); err != nil {
		return fmt.Errorf("incrementing impressions count: %w", err)
	}

	return nil
}

// PickHighRatedID scores every row with at least one like using the
// Bayesian-smoothed rate (likes+alpha)/(impressions+beta), ranks the top
// candidates, and picks one uniformly at random. Rows with zero likes never
// qualify regardless of score.
func (d *SQLiteDriver) PickHighRatedID(ctx context.Context, excludeIDs []string) (string, error) {
	args := []any{d.config.SmoothingAlpha, d.config.SmoothingBeta}

	exclusion := ""
	if len(excludeIDs) > 0 {
		placeholders := make([]string, len(excludeIDs))
		for i, id := range excludeIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		exclusion = fmt.Sprintf("AND quote_id NOT IN (%s)", strings.Join(placeholders, ","))
	}

	args = append(args, d.config.CandidatePoolSize)

	query := fmt.Sprintf(`
		WITH top_candidates AS (
			SELECT
				quote_id,
				(CAST(likes_count AS REAL) + ?) / (impressions_count + ?) AS score
			FROM quote_stats
			WHERE likes_count > 0
			%s
			ORDER BY score DESC
			LIMIT ?
		)
		SELECT quote_id
		FROM top_candidates
		ORDER BY RANDOM()
		LIMIT 1
	`, exclusion)

	var quoteID string
	err := d.db.QueryRowContext(ctx, query, args...).Scan(&quoteID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("picking high-rated candidate: %w", err)
	}

	return quoteID, nil
}

// readCounters reads the counters inside the given transaction. A missing
// stats row reads as zeroes.
func (d *SQLiteDriver) readCounters(ctx context.Context, tx *sql.Tx, quoteID string) (*stats.MutationResult, error) {
	result := &stats.MutationResult{}

	err := tx.QueryRowContext(ctx, `
		SELECT likes_count, impressions_count
		FROM quote_stats
		WHERE quote_id = ?
	`, quoteID).Scan(&result.LikesCount, &result.ImpressionsCount)
	if errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading counters: %w", err)
	}

	return result, nil
}

// Close releases resources held by the driver.
func (d *SQLiteDriver) Close() error {
	return d.db.Close()
}
