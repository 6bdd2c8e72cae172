// Package pipeline answers questions about the city by retrieving indexed
// POI documents and grounding a language model on them. When the model is
// unreachable it degrades to extractive answers built from the retrieved
// text, so the query path never fails just because Ollama is down.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/embeddings"
	"github.com/czestoguide/cityguide/pkg/llm"
	"github.com/czestoguide/cityguide/pkg/utils"
	"github.com/czestoguide/cityguide/pkg/vector"
)

const (
	// DefaultTopK is the number of documents retrieved per question.
	DefaultTopK = 3

	// fallbackTruncateLen bounds the extractive fallback answer.
	fallbackTruncateLen = 1000

	// noInfoAnswer is returned when retrieval finds nothing at all.
	noInfoAnswer = "I don't have any information about that in my knowledge base. Try asking about restaurants, attractions, hotels, or other places in Częstochowa."
)

// ErrEmptyQuestion is returned when a request carries no question text.
var ErrEmptyQuestion = errors.New("question must not be empty")

// Pipeline orchestrates retrieval and generation for a single city index.
type Pipeline struct {
	embedder  embeddings.Embedder
	store     vector.Driver
	generator llm.Generator
	logger    *zap.Logger

	topK int

	// availMu guards llmAvailable, which is probed at startup and on
	// explicit refresh rather than per query.
	availMu      sync.RWMutex
	llmAvailable bool
}

// Config holds configuration for the pipeline.
type Config struct {
	Embedder  embeddings.Embedder
	Store     vector.Driver
	Generator llm.Generator
	Logger    *zap.Logger

	// TopK is the default retrieval depth. Defaults to DefaultTopK when
	// zero or negative.
	TopK int
}

// New creates a pipeline and probes generator availability once.
func New(ctx context.Context, cfg Config) *Pipeline {
	topK := cfg.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pipeline{
		embedder:  cfg.Embedder,
		store:     cfg.Store,
		generator: cfg.Generator,
		logger:    logger,
		topK:      topK,
	}
	p.RefreshAvailability(ctx)

	return p
}

// RefreshAvailability re-probes the generation backend and caches the
// result. It is safe to call concurrently and returns the fresh value.
func (p *Pipeline) RefreshAvailability(ctx context.Context) bool {
	available := p.generator.IsAvailable(ctx)

	p.availMu.Lock()
	p.llmAvailable = available
	p.availMu.Unlock()

	p.logger.Debug("llm availability refreshed",
		zap.Bool("available", available),
		zap.String("model", p.generator.CurrentModel()))

	return available
}

// LLMAvailable returns the cached generator availability.
func (p *Pipeline) LLMAvailable() bool {
	p.availMu.RLock()
	defer p.availMu.RUnlock()
	return p.llmAvailable
}

// Query answers a question synchronously. Retrieval failures and generation
// failures degrade to fallback answers; only an empty question is an error.
func (p *Pipeline) Query(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	sources, contextBlock, retrievalTime := p.retrieve(ctx, question, req)

	result := &Result{
		Metadata: Metadata{
			RetrievalTimeMs:    retrievalTime.Milliseconds(),
			DocumentsRetrieved: len(sources),
			LLMAvailable:       p.LLMAvailable(),
			Model:              p.generator.CurrentModel(),
		},
	}
	if req.ReturnSources {
		result.Sources = sources
	}

	if len(sources) == 0 {
		result.Answer = noInfoAnswer
		result.Metadata.TotalTimeMs = time.Since(start).Milliseconds()
		return result, nil
	}

	genStart := time.Now()
	if p.LLMAvailable() {
		answer, err := p.generator.Generate(ctx, question, contextBlock)
		if err != nil {
			p.logger.Warn("generation failed, using fallback answer", zap.Error(err))
			result.Answer = fallbackAnswer(contextBlock)
		} else {
			result.Answer = answer
		}
	} else {
		result.Answer = fallbackAnswer(contextBlock)
	}

	result.Metadata.GenerationTimeMs = time.Since(genStart).Milliseconds()
	result.Metadata.TotalTimeMs = time.Since(start).Milliseconds()

	p.logger.Info("query answered",
		zap.Int("sources", len(sources)),
		zap.Int64("total_ms", result.Metadata.TotalTimeMs),
		zap.Bool("llm", result.Metadata.LLMAvailable))

	return result, nil
}

// QueryStream answers a question as a sequence of events: one sources event,
// zero or more answer fragments, then a done event with metadata. Generation
// failures surface as a final answer event with fallback text; the stream
// always ends with done unless fn itself fails or ctx is canceled.
func (p *Pipeline) QueryStream(ctx context.Context, req Request, fn func(StreamEvent) error) error {
	start := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return ErrEmptyQuestion
	}

	sources, contextBlock, retrievalTime := p.retrieve(ctx, question, req)

	if err := fn(StreamEvent{Type: StreamEventSources, Sources: sources}); err != nil {
		return err
	}

	meta := Metadata{
		RetrievalTimeMs:    retrievalTime.Milliseconds(),
		DocumentsRetrieved: len(sources),
		LLMAvailable:       p.LLMAvailable(),
		Model:              p.generator.CurrentModel(),
	}

	// fnErr distinguishes a failing event callback from a failing generator:
	// the former aborts the stream, the latter degrades to a fallback answer.
	var fnErr error
	emitAnswer := func(text string) error {
		if err := fn(StreamEvent{Type: StreamEventAnswer, Content: text}); err != nil {
			fnErr = err
			return err
		}
		return nil
	}

	genStart := time.Now()
	switch {
	case len(sources) == 0:
		if err := emitAnswer(noInfoAnswer); err != nil {
			return err
		}
	case p.LLMAvailable():
		err := p.generator.GenerateStream(ctx, question, contextBlock, emitAnswer)
		if err != nil {
			if fnErr != nil {
				return fnErr
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn("streaming generation failed, using fallback answer", zap.Error(err))
			if err := emitAnswer(fallbackAnswer(contextBlock)); err != nil {
				return err
			}
		}
	default:
		if err := emitAnswer(fallbackAnswer(contextBlock)); err != nil {
			return err
		}
	}

	meta.GenerationTimeMs = time.Since(genStart).Milliseconds()
	meta.TotalTimeMs = time.Since(start).Milliseconds()

	return fn(StreamEvent{Type: StreamEventDone, Metadata: &meta})
}

// Categories lists the distinct categories currently in the index.
func (p *Pipeline) Categories(ctx context.Context) ([]string, error) {
	return p.store.Categories(ctx)
}

// Status reports index size, cached LLM availability, and categories.
func (p *Pipeline) Status(ctx context.Context) (*Status, error) {
	count, err := p.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	categories, err := p.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	return &Status{
		DocumentCount: count,
		LLMAvailable:  p.LLMAvailable(),
		Model:         p.generator.CurrentModel(),
		Categories:    categories,
	}, nil
}

// Generator exposes the underlying generator for model listing and switching.
func (p *Pipeline) Generator() llm.Generator {
	return p.generator
}

// retrieve embeds the question and fetches the nearest documents. Any failure
// logs and returns empty results so the caller can fall back gracefully.
func (p *Pipeline) retrieve(ctx context.Context, question string, req Request) ([]Source, string, time.Duration) {
	start := time.Now()

	topK := req.TopK
	if topK <= 0 {
		topK = p.topK
	}

	embedding, err := p.embedder.Embed(ctx, question)
	if err != nil {
		p.logger.Warn("embedding question failed", zap.Error(err))
		return nil, "", time.Since(start)
	}

	var filter *vector.Filter
	if req.Category != "" {
		filter = &vector.Filter{Category: req.Category}
	}

	results, err := p.store.Query(ctx, embedding, topK, filter)
	if err != nil {
		p.logger.Warn("vector query failed", zap.Error(err))
		return nil, "", time.Since(start)
	}

	sources := make([]Source, 0, len(results))
	blocks := make([]string, 0, len(results))
	for i, r := range results {
		sources = append(sources, Source{
			Name:      r.Metadata.Name,
			Category:  r.Metadata.Category,
			Text:      r.Text,
			Relevance: clamp01(1 - r.Distance),
			Rating:    r.Metadata.Rating,
		})
		blocks = append(blocks, fmt.Sprintf("[Source %d]: %s", i+1, r.Text))
	}

	return sources, strings.Join(blocks, "\n\n"), time.Since(start)
}

// fallbackAnswer builds an extractive answer from the retrieved context when
// generation is unavailable.
func fallbackAnswer(contextBlock string) string {
	return "Based on the available information:\n\n" + utils.Truncate(contextBlock, fallbackTruncateLen)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
