package pipeline

// Request is a single question put to the pipeline.
type Request struct {
	// Question is the user's natural-language question.
	Question string `json:"question"`

	// Category optionally restricts retrieval to one POI category.
	Category string `json:"category,omitempty"`

	// TopK overrides the number of documents retrieved when positive.
	TopK int `json:"top_k,omitempty"`

	// ReturnSources controls whether the result carries the retrieved
	// sources. Retrieval itself always runs.
	ReturnSources bool `json:"return_sources,omitempty"`
}

// Source is one retrieved document backing an answer.
type Source struct {
	// Name is the POI display name.
	Name string `json:"name"`

	// Category is the POI category.
	Category string `json:"category"`

	// Text is the document text that was retrieved.
	Text string `json:"text"`

	// Relevance is 1 minus the vector distance, clamped to [0, 1].
	Relevance float32 `json:"relevance"`

	// Rating is the POI's average review rating, 0 when unrated.
	Rating float64 `json:"rating,omitempty"`
}

// Metadata carries per-query timing and provenance.
type Metadata struct {
	TotalTimeMs        int64  `json:"total_time_ms"`
	RetrievalTimeMs    int64  `json:"retrieval_time_ms"`
	GenerationTimeMs   int64  `json:"generation_time_ms"`
	DocumentsRetrieved int    `json:"documents_retrieved"`
	LLMAvailable       bool   `json:"llm_available"`
	Model              string `json:"model,omitempty"`
}

// Result is a complete answer with its sources and metadata.
type Result struct {
	Answer   string   `json:"answer"`
	Sources  []Source `json:"sources"`
	Metadata Metadata `json:"metadata"`
}

// Status describes the pipeline's readiness.
type Status struct {
	// DocumentCount is the number of indexed documents, counted live.
	DocumentCount int `json:"document_count"`

	// LLMAvailable is the cached availability of the generation backend.
	LLMAvailable bool `json:"llm_available"`

	// Model is the active generation model.
	Model string `json:"model"`

	// Categories lists the distinct POI categories in the index.
	Categories []string `json:"categories"`
}

// Stream event types emitted by QueryStream.
const (
	// StreamEventSources carries the retrieved sources, sent once before
	// any answer text.
	StreamEventSources = "sources"

	// StreamEventAnswer carries one answer fragment.
	StreamEventAnswer = "answer"

	// StreamEventDone closes the stream and carries final metadata.
	StreamEventDone = "done"
)

// StreamEvent is one event in a streaming answer. Exactly one of Sources,
// Content, or Metadata is set depending on Type.
type StreamEvent struct {
	Type     string    `json:"type"`
	Sources  []Source  `json:"sources,omitempty"`
	Content  string    `json:"content,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}
