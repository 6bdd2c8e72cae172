package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/embeddings"
	"github.com/czestoguide/cityguide/pkg/pipeline"
	"github.com/czestoguide/cityguide/pkg/utils"
)

// TestQuestion is one entry of the evaluation question set.
type TestQuestion struct {
	Question         string   `json:"question"`
	ExpectedKeywords []string `json:"expected_keywords"`
	CategoryHint     string   `json:"category_hint,omitempty"`
}

// LoadQuestions reads a question set from a JSON file.
func LoadQuestions(path string) ([]TestQuestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var questions []TestQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return questions, nil
}

// Result pairs one question with its answer and scores. Long answers are
// truncated for the report.
type Result struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Metrics  Metrics `json:"metrics"`
}

// Summary aggregates metrics across an evaluation run.
type Summary struct {
	TotalQuestions int                `json:"total_questions"`
	AverageMetrics map[string]float64 `json:"average_metrics"`
	MinMetrics     map[string]float64 `json:"min_metrics"`
	MaxMetrics     map[string]float64 `json:"max_metrics"`
}

// Report collects evaluation results.
type Report struct {
	Results []Result `json:"detailed_results"`
}

// Add appends one result, truncating the answer to keep reports readable.
func (r *Report) Add(question, answer string, m Metrics) {
	r.Results = append(r.Results, Result{
		Question: question,
		Answer:   utils.Truncate(answer, 200),
		Metrics:  m,
	})
}

// Summarize computes aggregate statistics across all results.
func (r *Report) Summarize() Summary {
	s := Summary{
		TotalQuestions: len(r.Results),
		AverageMetrics: make(map[string]float64),
		MinMetrics:     make(map[string]float64),
		MaxMetrics:     make(map[string]float64),
	}

	collect := func(name string, value func(Metrics) (float64, bool)) {
		var sum, min, max float64
		n := 0
		for _, res := range r.Results {
			v, ok := value(res.Metrics)
			if !ok {
				continue
			}
			if n == 0 {
				min, max = v, v
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			sum += v
			n++
		}
		if n > 0 {
			s.AverageMetrics[name] = sum / float64(n)
			s.MinMetrics[name] = min
			s.MaxMetrics[name] = max
		}
	}

	collect("keyword_overlap", func(m Metrics) (float64, bool) {
		return m.KeywordOverlap, true
	})
	collect("semantic_similarity", func(m Metrics) (float64, bool) {
		if m.SemanticSimilarity == nil {
			return 0, false
		}
		return *m.SemanticSimilarity, true
	})
	collect("retrieval_relevance", func(m Metrics) (float64, bool) {
		if m.RetrievalRelevance == nil {
			return 0, false
		}
		return *m.RetrievalRelevance, true
	})
	collect("combined_score", func(m Metrics) (float64, bool) {
		return m.CombinedScore, true
	})
	collect("latency_ms", func(m Metrics) (float64, bool) {
		return m.LatencyMs, true
	})

	return s
}

// Save writes the summary and detailed results to a JSON file.
func (r *Report) Save(path string) error {
	out := struct {
		Summary Summary  `json:"summary"`
		Results []Result `json:"detailed_results"`
	}{
		Summary: r.Summarize(),
		Results: r.Results,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Runner evaluates a pipeline against a question set.
type Runner struct {
	pipeline *pipeline.Pipeline
	embedder embeddings.Embedder
	logger   *zap.Logger
}

// NewRunner creates an evaluation runner. The embedder powers the semantic
// similarity metric and may be nil to skip it.
func NewRunner(p *pipeline.Pipeline, embedder embeddings.Embedder, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{pipeline: p, embedder: embedder, logger: logger}
}

// Run queries the pipeline for every question and scores the answers.
func (r *Runner) Run(ctx context.Context, questions []TestQuestion) (*Report, error) {
	report := &Report{}

	for _, q := range questions {
		start := time.Now()
		result, err := r.pipeline.Query(ctx, pipeline.Request{Question: q.Question, ReturnSources: true})
		if err != nil {
			return nil, fmt.Errorf("querying %q: %w", q.Question, err)
		}
		latencyMs := float64(time.Since(start).Microseconds()) / 1000

		metrics := Evaluate(Input{
			Answer:             result.Answer,
			Keywords:           q.ExpectedKeywords,
			Sources:            result.Sources,
			ExpectedCategory:   q.CategoryHint,
			SemanticSimilarity: r.semanticSimilarity(ctx, result.Answer, q.ExpectedKeywords),
			LatencyMs:          latencyMs,
		})

		report.Add(q.Question, result.Answer, metrics)

		r.logger.Info("evaluated question",
			zap.String("question", q.Question),
			zap.Float64("combined_score", metrics.CombinedScore),
			zap.Float64("latency_ms", latencyMs))
	}

	return report, nil
}

// semanticSimilarity embeds the answer and a keyword reference text and
// compares them. Returns nil when no embedder is configured or embedding
// fails, so the metric drops out instead of skewing the score.
func (r *Runner) semanticSimilarity(ctx context.Context, answer string, keywords []string) *float64 {
	if r.embedder == nil || answer == "" || len(keywords) == 0 {
		return nil
	}

	answerEmb, err := r.embedder.Embed(ctx, answer)
	if err != nil {
		r.logger.Debug("embedding answer failed", zap.Error(err))
		return nil
	}
	refEmb, err := r.embedder.Embed(ctx, strings.Join(keywords, " "))
	if err != nil {
		r.logger.Debug("embedding reference failed", zap.Error(err))
		return nil
	}

	sim := CosineSimilarity(answerEmb, refEmb)
	return &sim
}
