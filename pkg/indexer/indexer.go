// Package indexer embeds enriched POI documents and loads them into a
// vector store in batches.
package indexer

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/embeddings"
	"github.com/czestoguide/cityguide/pkg/poi"
	"github.com/czestoguide/cityguide/pkg/vector"
)

// batchSize bounds how many documents go into one store write.
const batchSize = 100

// Indexer feeds POI documents through an embedder into a vector store.
type Indexer struct {
	embedder embeddings.Embedder
	store    vector.Driver
	logger   *zap.Logger
}

// New creates an indexer.
func New(embedder embeddings.Embedder, store vector.Driver, logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Stats summarizes an indexing run.
type Stats struct {
	// Indexed is the number of documents written.
	Indexed int

	// Skipped counts POIs without document text.
	Skipped int

	// Total is the store's document count after the run.
	Total int
}

// Index embeds each POI's document text and writes the batch to the store.
// When the store already holds documents and force is false, the run is a
// no-op; with force, the store is reset first.
func (ix *Indexer) Index(ctx context.Context, pois []poi.POI, force bool) (*Stats, error) {
	count, err := ix.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting existing documents: %w", err)
	}

	if count > 0 {
		if !force {
			ix.logger.Info("collection already indexed, skipping",
				zap.Int("documents", count))
			return &Stats{Total: count}, nil
		}
		if err := ix.store.Reset(ctx); err != nil {
			return nil, fmt.Errorf("resetting store: %w", err)
		}
	}

	docs := make([]vector.Document, 0, len(pois))
	skipped := 0
	for i := range pois {
		p := &pois[i]
		if p.DocumentText == "" {
			skipped++
			continue
		}
		docs = append(docs, vector.Document{
			ID:   strconv.FormatInt(p.ID, 10),
			Text: p.DocumentText,
			Metadata: vector.Metadata{
				Name:     p.Name,
				Category: p.Category,
				Lat:      p.Lat,
				Lon:      p.Lon,
				Rating:   p.AverageRating(),
			},
		})
	}

	ix.logger.Info("indexing documents",
		zap.Int("documents", len(docs)),
		zap.Int("skipped", skipped))

	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		embs := make([][]float32, 0, len(batch))
		for _, d := range batch {
			emb, err := ix.embedder.Embed(ctx, d.Text)
			if err != nil {
				return nil, fmt.Errorf("embedding document %s: %w", d.ID, err)
			}
			embs = append(embs, emb)
		}

		if err := ix.store.Add(ctx, batch, embs); err != nil {
			return nil, fmt.Errorf("adding batch: %w", err)
		}

		ix.logger.Info("indexed batch",
			zap.Int("done", end),
			zap.Int("total", len(docs)))
	}

	total, err := ix.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	return &Stats{
		Indexed: len(docs),
		Skipped: skipped,
		Total:   total,
	}, nil
}
