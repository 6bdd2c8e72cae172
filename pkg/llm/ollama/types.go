package ollama

// generateRequest is the request body for Ollama's /api/generate endpoint.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

// generateOptions carries the sampling options sent with every generation.
type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

// generateResponse is one response object from /api/generate. Non-streaming
// calls return a single object; streaming calls return one per NDJSON line.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// tagsResponse is the response from /api/tags.
type tagsResponse struct {
	Models []tagModel `json:"models"`
}

// tagModel is one entry in the /api/tags model list.
type tagModel struct {
	Name string `json:"name"`
}
