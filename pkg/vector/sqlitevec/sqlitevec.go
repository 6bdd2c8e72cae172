// Package sqlitevec provides a SQLite-backed vector driver using sqlite-vec.
// It gives the guide a persistent local index without running a vector
// database server.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/vector"
)

// filterOverfetch is the KNN over-fetch factor for filtered queries. vec0
// MATCH returns exactly k rows before the category predicate applies, so
// filtered queries request more candidates and trim after joining.
const filterOverfetch = 20

// Driver implements vector.Driver using SQLite with the sqlite-vec extension.
type Driver struct {
	db     *sql.DB
	logger *zap.Logger
}

// Config holds configuration for the SQLite vec driver.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the number of dimensions for the embedding vectors.
	Dimensions uint
}

// NewDriver creates a new SQLite vector driver backed by sqlite-vec.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("sqlite-vec embedding dimensions cannot be 0, must be configured")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite-vec not available: %w", err)
	}

	// Create the POI document table. vec0 virtual tables use integer rowids,
	// so string document IDs map through this table.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS poi_documents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL UNIQUE,
			text TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			lat REAL NOT NULL DEFAULT 0,
			lon REAL NOT NULL DEFAULT 0,
			rating REAL NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS poi_documents_category ON poi_documents(category)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating category index: %w", err)
	}

	// Create the vec0 virtual table for vector storage and KNN queries.
	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS poi_embeddings USING vec0(embedding float[%d])`,
		c.Dimensions,
	)
	if _, err := db.Exec(createVec); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vec0 table: %w", err)
	}

	logger.Info("sqlite-vec vector driver initialized",
		zap.String("db_path", c.DBPath),
		zap.Uint("dimensions", c.Dimensions),
		zap.String("vec_version", vecVersion),
	)

	return &Driver{
		db:     db,
		logger: logger,
	}, nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Add stores documents with their embeddings.
// If a document with the same ID already exists, it is updated.
func (d *Driver) Add(ctx context.Context, docs []vector.Document, embeddings [][]float32) error {
	if len(docs) == 0 {
		return nil
	}
	if len(docs) != len(embeddings) {
		return fmt.Errorf("documents and embeddings length mismatch: %d vs %d", len(docs), len(embeddings))
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, doc := range docs {
		embBlob := serializeFloat32(embeddings[i])

		// Check if document already exists
		var existingRowID int64
		err = tx.QueryRowContext(ctx,
			`SELECT rowid FROM poi_documents WHERE doc_id = ?`, doc.ID,
		).Scan(&existingRowID)

		switch err {
		case nil:
			if _, err := tx.ExecContext(ctx,
				`UPDATE poi_documents SET text = ?, name = ?, category = ?, lat = ?, lon = ?, rating = ? WHERE rowid = ?`,
				doc.Text, doc.Metadata.Name, doc.Metadata.Category,
				doc.Metadata.Lat, doc.Metadata.Lon, doc.Metadata.Rating,
				existingRowID,
			); err != nil {
				return fmt.Errorf("updating document %s: %w", doc.ID, err)
			}

			// Update embedding in vec0 table via DELETE + INSERT
			// (vec0 does not support UPDATE)
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM poi_embeddings WHERE rowid = ?`, existingRowID,
			); err != nil {
				return fmt.Errorf("deleting old embedding for doc %s: %w", doc.ID, err)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO poi_embeddings(rowid, embedding) VALUES (?, ?)`,
				existingRowID, embBlob,
			); err != nil {
				return fmt.Errorf("re-inserting embedding for doc %s: %w", doc.ID, err)
			}
		case sql.ErrNoRows:
			// New document: insert into mapping table first to get the rowid
			result, err := tx.ExecContext(ctx,
				`INSERT INTO poi_documents(doc_id, text, name, category, lat, lon, rating) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				doc.ID, doc.Text, doc.Metadata.Name, doc.Metadata.Category,
				doc.Metadata.Lat, doc.Metadata.Lon, doc.Metadata.Rating,
			)
			if err != nil {
				return fmt.Errorf("inserting document %s: %w", doc.ID, err)
			}

			rowID, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("getting rowid for doc %s: %w", doc.ID, err)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO poi_embeddings(rowid, embedding) VALUES (?, ?)`,
				rowID, embBlob,
			); err != nil {
				return fmt.Errorf("inserting embedding for doc %s: %w", doc.ID, err)
			}
		default:
			return fmt.Errorf("checking for existing document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	d.logger.Debug("added documents to sqlite-vec",
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query finds the topK documents nearest to the given embedding.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int, filter *vector.Filter) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	queryBlob := serializeFloat32(embedding)

	k := topK
	category := ""
	if filter != nil && filter.Category != "" {
		category = filter.Category
		k = topK * filterOverfetch
	}

	// KNN query via vec0 MATCH, then JOIN back for text and metadata.
	rows, err := d.db.QueryContext(ctx, `
		SELECT
			p.doc_id,
			p.text,
			p.name,
			p.category,
			p.lat,
			p.lon,
			p.rating,
			pe.distance
		FROM poi_embeddings pe
		INNER JOIN poi_documents p ON p.rowid = pe.rowid
		WHERE pe.embedding MATCH ?
			AND pe.k = ?
			AND (? = '' OR p.category = ?)
		ORDER BY pe.distance
	`, queryBlob, k, category, category)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var results []vector.QueryResult
	for rows.Next() {
		var result vector.QueryResult
		var distance float64
		if err := rows.Scan(
			&result.ID, &result.Text,
			&result.Metadata.Name, &result.Metadata.Category,
			&result.Metadata.Lat, &result.Metadata.Lon, &result.Metadata.Rating,
			&distance,
		); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}
		result.Distance = float32(distance)

		results = append(results, result)
		if len(results) == topK {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	d.logger.Debug("queried sqlite-vec",
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Count returns the number of documents in the index.
func (d *Driver) Count(ctx context.Context) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM poi_documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// Categories returns the sorted distinct categories in the index.
func (d *Driver) Categories(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM poi_documents WHERE category != '' ORDER BY category`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return categories, nil
}

// Reset removes all documents and embeddings.
func (d *Driver) Reset(ctx context.Context) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM poi_embeddings`); err != nil {
		return fmt.Errorf("clearing embeddings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM poi_documents`); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.db.Close()
}

// Ensure Driver implements vector.Driver.
var _ vector.Driver = (*Driver)(nil)
