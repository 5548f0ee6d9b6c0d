// Package sqlitevec provides a SQLite-backed embedding store using sqlite-vec.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/UladRH/quotes-assignment-task/pkg/similar"
)

// Config holds configuration for the sqlite-vec embedding store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the embedding vector length. Required.
	Dimensions uint
}

// SQLiteVecDriver implements similar.Driver using SQLite with sqlite-vec.
type SQLiteVecDriver struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteVecDriver creates a new embedding store backed by sqlite-vec.
func NewSQLiteVecDriver(c Config, logger *zap.Logger) (*SQLiteVecDriver, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if c.Dimensions == 0 {
		return nil, fmt.Errorf("embedding dimensions cannot be 0, must be configured")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", similar.ErrConnection, err)
	}

	db.SetMaxOpenConns(1)

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: sqlite-vec not available: %v", similar.ErrConnection, err)
	}

	// vec0 virtual tables use integer rowids, so a mapping table carries
	// the string quote ids.
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS quote_embeddings (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			quote_id TEXT NOT NULL UNIQUE
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating embeddings mapping table: %w", err)
	}

	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS vec_quote_embeddings USING vec0(embedding float[%d])`,
		c.Dimensions,
	)
	if _, err := db.Exec(createVec); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vec0 table: %w", err)
	}

	logger.Info("sqlite-vec embedding store initialized",
		zap.String("db_path", c.DBPath),
		zap.Uint("dimensions", c.Dimensions),
		zap.String("vec_version", vecVersion),
	)

	return &SQLiteVecDriver{
		db:     db,
		logger: logger,
	}, nil
}

// serializeFloat32 converts a float32 slice to the little-endian BLOB
// format sqlite-vec expects.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Add stores embeddings, replacing any existing vector per quote id.
func (d *SQLiteVecDriver) Add(ctx context.Context, embeddings []similar.Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range embeddings {
		blob := serializeFloat32(e.Vector)

		var existingRowID int64
		err := tx.QueryRowContext(ctx,
			`SELECT rowid FROM quote_embeddings WHERE quote_id = ?`, e.QuoteID,
		).Scan(&existingRowID)

		switch {
		case err == nil:
			// vec0 does not support UPDATE, replace via DELETE + INSERT
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM vec_quote_embeddings WHERE rowid = ?`, existingRowID,
			); err != nil {
				return fmt.Errorf("deleting old embedding for quote %s: %w", e.QuoteID, err)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO vec_quote_embeddings (rowid, embedding) VALUES (?, ?)`,
				existingRowID, blob,
			); err != nil {
				return fmt.Errorf("re-inserting embedding for quote %s: %w", e.QuoteID, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			result, err := tx.ExecContext(ctx,
				`INSERT INTO quote_embeddings (quote_id) VALUES (?)`, e.QuoteID,
			)
			if err != nil {
				return fmt.Errorf("inserting quote %s: %w", e.QuoteID, err)
			}

			rowID, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("getting rowid for quote %s: %w", e.QuoteID, err)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO vec_quote_embeddings (rowid, embedding) VALUES (?, ?)`,
				rowID, blob,
			); err != nil {
				return fmt.Errorf("inserting embedding for quote %s: %w", e.QuoteID, err)
			}
		default:
			return fmt.Errorf("checking for existing quote %s: %w", e.QuoteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	d.logger.Debug("added embeddings to sqlite-vec",
		zap.Int("count", len(embeddings)),
	)

	return nil
}

// FindSimilarIDs looks up quoteID's embedding and returns up to limit quote
// ids in ascending L2 distance order, excluding quoteID itself. A quote
// without a stored embedding produces an empty result, not an error.
func (d *SQLiteVecDriver) FindSimilarIDs(ctx context.Context, quoteID string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	var sourceBlob []byte
	err := d.db.QueryRowContext(ctx, `
		SELECT v.embedding
		FROM quote_embeddings q
		INNER JOIN vec_quote_embeddings v ON v.rowid = q.rowid
		WHERE q.quote_id = ?
	`, quoteID).Scan(&sourceBlob)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up source embedding: %w", err)
	}

	// KNN via vec0 MATCH. The source row is its own nearest neighbor, so
	// over-fetch by one and filter it out.
	rows, err := d.db.QueryContext(ctx, `
		SELECT q.quote_id
		FROM vec_quote_embeddings v
		INNER JOIN quote_embeddings q ON q.rowid = v.rowid
		WHERE v.embedding MATCH ?
			AND v.k = ?
		ORDER BY v.distance
	`, sourceBlob, limit+1)
	if err != nil {
		return nil, fmt.Errorf("querying neighbors: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, limit)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning neighbor: %w", err)
		}
		if id == quoteID {
			continue
		}
		if len(ids) < limit {
			ids = append(ids, id)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating neighbors: %w", err)
	}

	d.logger.Debug("queried similar quote ids",
		zap.String("quote_id", quoteID),
		zap.Int("results", len(ids)),
	)

	return ids, nil
}

// Close releases resources held by the driver.
func (d *SQLiteVecDriver) Close() error {
	return d.db.Close()
}
