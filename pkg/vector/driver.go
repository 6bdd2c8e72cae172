// Package vector provides interfaces and implementations for vector storage
// and nearest-neighbor retrieval of POI documents.
package vector

import "context"

// Metadata is the display metadata stored alongside each POI document.
type Metadata struct {
	// Name is the POI's display name.
	Name string

	// Category is the POI category (e.g. "restaurant", "religious_site").
	Category string

	// Lat and Lon are the POI's coordinates.
	Lat float64
	Lon float64

	// Rating is the average review rating, 0 when unrated.
	Rating float64
}

// Document represents a stored POI document with its text and metadata.
// Documents are written once during indexing and immutable thereafter.
type Document struct {
	// ID is a unique identifier for the document (the OSM element id).
	ID string

	// Text is the document text that was embedded.
	Text string

	// Metadata holds the POI display metadata.
	Metadata Metadata
}

// QueryResult represents a retrieved document with its distance to the query.
type QueryResult struct {
	Document

	// Distance is the similarity distance reported by the index
	// (lower = more similar).
	Distance float32
}

// Filter restricts a query to documents matching a metadata field.
type Filter struct {
	// Category matches documents whose category equals this value exactly.
	Category string
}

// Driver handles storage and retrieval of embedded POI documents.
type Driver interface {
	// Add stores documents with their embeddings. Documents with an
	// existing ID should be updated rather than duplicated.
	Add(ctx context.Context, docs []Document, embeddings [][]float32) error

	// Query finds the topK documents nearest to the given embedding,
	// ordered by ascending distance. A nil filter matches everything.
	// A filter that matches nothing yields an empty result, not an error.
	Query(ctx context.Context, embedding []float32, topK int, filter *Filter) ([]QueryResult, error)

	// Count returns the number of documents in the index.
	Count(ctx context.Context) (int, error)

	// Categories returns the sorted distinct categories in the index.
	Categories(ctx context.Context) ([]string, error)

	// Reset removes all documents so the index can be rebuilt.
	Reset(ctx context.Context) error

	// Close releases any resources held by the driver.
	Close() error
}
