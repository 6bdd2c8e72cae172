// Package pipelineutils assembles a query pipeline from configuration.
package pipelineutils

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/config"
	"github.com/czestoguide/cityguide/pkg/embeddings"
	embeddingutils "github.com/czestoguide/cityguide/pkg/embeddings/utils"
	llmollama "github.com/czestoguide/cityguide/pkg/llm/ollama"
	"github.com/czestoguide/cityguide/pkg/pipeline"
	"github.com/czestoguide/cityguide/pkg/vector"
	vectorutils "github.com/czestoguide/cityguide/pkg/vector/utils"
)

// Stack bundles the pipeline with its closable components so commands can
// tear everything down when done.
type Stack struct {
	Pipeline *pipeline.Pipeline
	Embedder embeddings.Embedder
	Store    vector.Driver
}

// Close releases the stack's resources.
func (s *Stack) Close() error {
	var firstErr error
	if err := s.Embedder.Close(); err != nil {
		firstErr = err
	}
	if err := s.Store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// NewStack builds the embedder, vector driver, generator, and pipeline from
// the given config.
func NewStack(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stack, error) {
	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	store, err := vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType: cfg.VectorStore.Provider,
		Target:       cfg.VectorStore.Target,
		Collection:   cfg.VectorStore.Collection,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       logger,
	})
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("creating vector driver: %w", err)
	}

	generator := llmollama.NewGenerator(llmollama.GeneratorConfig{
		BaseURL: cfg.LLM.Target,
		Model:   cfg.LLM.Model,
	})

	p := pipeline.New(ctx, pipeline.Config{
		Embedder:  embedder,
		Store:     store,
		Generator: generator,
		Logger:    logger,
		TopK:      cfg.RAG.TopK,
	})

	return &Stack{
		Pipeline: p,
		Embedder: embedder,
		Store:    store,
	}, nil
}
