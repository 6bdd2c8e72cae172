package config

const (
	defaultOverpassURL = "https://overpass-api.de/api/interpreter"

	defaultVectorProvider   = "chroma"
	defaultVectorTarget     = "http://localhost:8000"
	defaultVectorCollection = "czestochowa_pois"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "all-minilm"
	defaultEmbeddingDimensions = 384

	defaultLLMTarget = "http://localhost:11434"
	defaultLLMModel  = "gemma:7b"

	defaultTopK = 3

	defaultAPIListen = ":5001"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Overpass: OverpassConfig{
			URL: defaultOverpassURL,
		},
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Target:     defaultVectorTarget,
			Collection: defaultVectorCollection,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		LLM: LLMConfig{
			Target: defaultLLMTarget,
			Model:  defaultLLMModel,
		},
		RAG: RAGConfig{
			TopK: defaultTopK,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
	}
}
