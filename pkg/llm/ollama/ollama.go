// Package ollama implements pkg/llm's Generator against a local Ollama daemon.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/czestoguide/cityguide/pkg/llm"
)

const (
	// DefaultModel is the default generation model.
	DefaultModel = "gemma:7b"

	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"

	// defaultTemperature and defaultMaxTokens are the sampling options sent
	// with every generation request.
	defaultTemperature = 0.7
	defaultMaxTokens   = 500

	// probeTimeout bounds the /api/tags availability check.
	probeTimeout = 5 * time.Second
)

// Generator wraps Ollama's generate API.
type Generator struct {
	baseURL    string
	httpClient *http.Client

	// mu guards model, which /api/models/switch can change at runtime.
	mu    sync.RWMutex
	model string
}

// GeneratorConfig holds configuration for the Ollama generator.
type GeneratorConfig struct {
	// BaseURL is the Ollama API URL (e.g., "http://localhost:11434").
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the generation model to use. Defaults to DefaultModel if empty.
	Model string
}

// NewGenerator creates a new generator using Ollama's generate API.
func NewGenerator(cfg GeneratorConfig) *Generator {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// IsAvailable reports whether Ollama is reachable and offers the active
// model, matching either the exact name or the name without its tag.
func (g *Generator) IsAvailable(ctx context.Context) bool {
	names, err := g.Models(ctx)
	if err != nil {
		return false
	}

	model := g.CurrentModel()
	base := strings.SplitN(model, ":", 2)[0]
	for _, name := range names {
		if name == model || strings.HasPrefix(name, base) {
			return true
		}
	}
	return false
}

// Models lists the models available from Ollama.
func (g *Generator) Models(ctx context.Context) ([]string, error) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, "GET", g.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("creating tags request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending tags request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decoding tags response: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// CurrentModel returns the active model identifier.
func (g *Generator) CurrentModel() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.model
}

// SetModel switches to another model if Ollama offers it.
func (g *Generator) SetModel(ctx context.Context, model string) error {
	names, err := g.Models(ctx)
	if err != nil {
		return fmt.Errorf("listing models: %w", err)
	}

	base := strings.SplitN(model, ":", 2)[0]
	for _, name := range names {
		if name == model || strings.HasPrefix(name, base) {
			g.mu.Lock()
			g.model = model
			g.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("model %q not available", model)
}

// Generate returns the full answer for a question grounded in context.
func (g *Generator) Generate(ctx context.Context, question, context_ string) (string, error) {
	resp, err := g.generate(ctx, question, context_, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}

	return strings.TrimSpace(genResp.Response), nil
}

// GenerateStream streams NDJSON answer fragments to fn in emission order.
// Canceling ctx closes the request body and tears down generation.
func (g *Generator) GenerateStream(ctx context.Context, question, context_ string, fn func(chunk string) error) error {
	resp, err := g.generate(ctx, question, context_, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var genResp generateResponse
		if err := json.Unmarshal(line, &genResp); err != nil {
			return fmt.Errorf("decoding stream chunk: %w", err)
		}

		if genResp.Response != "" {
			if err := fn(genResp.Response); err != nil {
				return err
			}
		}
		if genResp.Done {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	return nil
}

// generate issues the /api/generate request shared by Generate and
// GenerateStream. The caller owns the response body.
func (g *Generator) generate(ctx context.Context, question, context_ string, stream bool) (*http.Response, error) {
	reqBody := generateRequest{
		Model:  g.CurrentModel(),
		Prompt: llm.BuildRAGPrompt(question, context_),
		Stream: stream,
		Options: generateOptions{
			Temperature: defaultTemperature,
			NumPredict:  defaultMaxTokens,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending generate request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// Ensure Generator implements llm.Generator.
var _ llm.Generator = (*Generator)(nil)
