// Package evaluation scores the QA system against a keyword-annotated
// question set, measuring answer overlap, semantic similarity, retrieval
// relevance, and latency.
package evaluation

import (
	"math"
	"strings"

	"github.com/czestoguide/cityguide/pkg/pipeline"
)

// categoryBonus rewards retrieved documents matching the expected category.
const categoryBonus = 1.2

// Metric weights for the combined score. Metrics that could not be computed
// drop out and the remaining weights are renormalized.
const (
	weightKeywordOverlap     = 0.3
	weightSemanticSimilarity = 0.3
	weightRetrievalRelevance = 0.2
	weightLatency            = 0.1
	weightAnswerLength       = 0.1
)

// Metrics holds the scores for one evaluated answer. Pointer fields are nil
// when the metric could not be computed.
type Metrics struct {
	KeywordOverlap     float64  `json:"keyword_overlap"`
	SemanticSimilarity *float64 `json:"semantic_similarity,omitempty"`
	RetrievalRelevance *float64 `json:"retrieval_relevance,omitempty"`
	AnswerLength       int      `json:"answer_length"`
	AnswerLengthScore  float64  `json:"answer_length_score"`
	LatencyMs          float64  `json:"latency_ms"`
	LatencyScore       float64  `json:"latency_score"`
	CombinedScore      float64  `json:"combined_score"`
}

// KeywordOverlapScore returns the fraction of expected keywords that appear
// in the answer, case-insensitively.
func KeywordOverlapScore(answer string, keywords []string) float64 {
	if answer == "" || len(keywords) == 0 {
		return 0
	}

	lower := strings.ToLower(answer)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords))
}

// RetrievalRelevanceScore averages per-source relevance, granting a bonus
// to sources whose category matches the expected one. Each source score is
// capped at 1.
func RetrievalRelevanceScore(sources []pipeline.Source, expectedCategory string) float64 {
	if len(sources) == 0 {
		return 0
	}

	sum := 0.0
	for _, s := range sources {
		score := float64(s.Relevance)
		if expectedCategory != "" && s.Category == expectedCategory {
			score *= categoryBonus
		}
		if score > 1 {
			score = 1
		}
		sum += score
	}
	return sum / float64(len(sources))
}

// CosineSimilarity computes the cosine similarity of two embeddings.
// Mismatched or zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// LatencyScore maps latency to [0, 1]; anything past 5 seconds scores 0.
func LatencyScore(latencyMs float64) float64 {
	score := 1 - latencyMs/5000
	if score < 0 {
		return 0
	}
	return score
}

// answerLengthScore rewards answers approaching 50 words.
func answerLengthScore(wordCount int) float64 {
	score := float64(wordCount) / 50
	if score > 1 {
		return 1
	}
	return score
}

// Input carries everything needed to score one answer. SemanticSimilarity
// and Sources may be absent when the embedder or retrieval was unavailable.
type Input struct {
	Answer             string
	Keywords           []string
	Sources            []pipeline.Source
	ExpectedCategory   string
	SemanticSimilarity *float64
	LatencyMs          float64
}

// Evaluate scores one answer against its expectations.
func Evaluate(in Input) Metrics {
	words := len(strings.Fields(in.Answer))

	m := Metrics{
		KeywordOverlap:     KeywordOverlapScore(in.Answer, in.Keywords),
		SemanticSimilarity: in.SemanticSimilarity,
		AnswerLength:       words,
		AnswerLengthScore:  answerLengthScore(words),
		LatencyMs:          in.LatencyMs,
		LatencyScore:       LatencyScore(in.LatencyMs),
	}
	if len(in.Sources) > 0 {
		rel := RetrievalRelevanceScore(in.Sources, in.ExpectedCategory)
		m.RetrievalRelevance = &rel
	}

	combined := m.KeywordOverlap*weightKeywordOverlap +
		m.LatencyScore*weightLatency +
		m.AnswerLengthScore*weightAnswerLength
	total := weightKeywordOverlap + weightLatency + weightAnswerLength

	if m.SemanticSimilarity != nil {
		combined += *m.SemanticSimilarity * weightSemanticSimilarity
		total += weightSemanticSimilarity
	}
	if m.RetrievalRelevance != nil {
		combined += *m.RetrievalRelevance * weightRetrievalRelevance
		total += weightRetrievalRelevance
	}

	m.CombinedScore = combined / total

	return m
}
