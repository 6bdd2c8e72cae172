// Package inmemory provides an in-process vector driver. It is used in tests
// and for running the guide without an external vector database.
package inmemory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/czestoguide/cityguide/pkg/vector"
)

// Driver implements vector.Driver with an in-process map and brute-force
// cosine distance.
type Driver struct {
	mu         sync.RWMutex
	docs       map[string]vector.Document
	embeddings map[string][]float32
}

// NewDriver creates an empty in-memory vector driver.
func NewDriver() *Driver {
	return &Driver{
		docs:       make(map[string]vector.Document),
		embeddings: make(map[string][]float32),
	}
}

// Add stores documents with their embeddings, replacing existing IDs.
func (d *Driver) Add(_ context.Context, docs []vector.Document, embeddings [][]float32) error {
	if len(docs) != len(embeddings) {
		return fmt.Errorf("documents and embeddings length mismatch: %d vs %d", len(docs), len(embeddings))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i, doc := range docs {
		d.docs[doc.ID] = doc
		d.embeddings[doc.ID] = embeddings[i]
	}
	return nil
}

// Query returns the topK nearest documents by cosine distance, ascending.
func (d *Driver) Query(_ context.Context, embedding []float32, topK int, filter *vector.Filter) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	results := make([]vector.QueryResult, 0, len(d.docs))
	for id, doc := range d.docs {
		if filter != nil && filter.Category != "" && doc.Metadata.Category != filter.Category {
			continue
		}
		results = append(results, vector.QueryResult{
			Document: doc,
			Distance: cosineDistance(embedding, d.embeddings[id]),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the number of stored documents.
func (d *Driver) Count(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.docs), nil
}

// Categories returns the sorted distinct categories of stored documents.
func (d *Driver) Categories(_ context.Context) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	seen := make(map[string]bool)
	for _, doc := range d.docs {
		if doc.Metadata.Category != "" {
			seen[doc.Metadata.Category] = true
		}
	}

	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return categories, nil
}

// Reset removes all stored documents.
func (d *Driver) Reset(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.docs = make(map[string]vector.Document)
	d.embeddings = make(map[string][]float32)
	return nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	return nil
}

// cosineDistance returns 1 - cosine similarity. Mismatched or zero vectors
// report the maximum distance rather than an error.
func cosineDistance(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}

	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}

// Ensure Driver implements vector.Driver.
var _ vector.Driver = (*Driver)(nil)
