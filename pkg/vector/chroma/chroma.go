// Package chroma provides a Chroma vector database driver implementation.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/vector"
)

const (
	// DefaultCollectionName is the default collection for POI documents.
	DefaultCollectionName = "czestochowa_pois"

	// categoriesScanLimit bounds the metadata scan used to enumerate
	// categories. Chroma has no distinct-values endpoint.
	categoriesScanLimit = 1000
)

// Driver implements vector.Driver using Chroma's REST API.
type Driver struct {
	baseURL        string
	collectionName string
	collectionID   string
	httpClient     *http.Client
	logger         *zap.Logger
}

// Config holds configuration for the Chroma driver.
type Config struct {
	// URL is the Chroma server URL (e.g., "http://localhost:8000").
	URL string

	// CollectionName is the name of the collection to use.
	// Defaults to DefaultCollectionName if empty.
	CollectionName string
}

// NewDriver creates a new Chroma vector driver and ensures the collection
// exists.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("chroma URL is required")
	}

	collectionName := c.CollectionName
	if collectionName == "" {
		collectionName = DefaultCollectionName
	}

	d := &Driver{
		baseURL:        c.URL,
		collectionName: collectionName,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}

	collectionID, err := d.getOrCreateCollection(context.Background())
	if err != nil {
		return nil, fmt.Errorf("getting or creating collection %q: %w", collectionName, err)
	}
	d.collectionID = collectionID

	logger.Info("connected to Chroma",
		zap.String("url", c.URL),
		zap.String("collection", collectionName),
		zap.String("collection_id", collectionID),
	)

	return d, nil
}

// getOrCreateCollection gets an existing collection or creates a new one.
func (d *Driver) getOrCreateCollection(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/api/v2/tenants/default_tenant/databases/default_database/collections/%s", d.baseURL, d.collectionName)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("creating get request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending get request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var collection chromaCollection
		if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
			return "", fmt.Errorf("decoding collection response: %w", err)
		}
		return collection.ID, nil
	}

	// Collection doesn't exist, create it
	createURL := fmt.Sprintf("%s/api/v2/tenants/default_tenant/databases/default_database/collections", d.baseURL)
	createBody := map[string]string{"name": d.collectionName}
	jsonBody, err := json.Marshal(createBody)
	if err != nil {
		return "", fmt.Errorf("marshaling create request: %w", err)
	}

	req, err = http.NewRequestWithContext(ctx, "POST", createURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err = d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending create request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to create collection: status %d: %s", resp.StatusCode, string(body))
	}

	var collection chromaCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return "", fmt.Errorf("decoding create response: %w", err)
	}

	return collection.ID, nil
}

// Add stores documents with their embeddings.
func (d *Driver) Add(ctx context.Context, docs []vector.Document, embeddings [][]float32) error {
	if len(docs) == 0 {
		return nil
	}
	if len(docs) != len(embeddings) {
		return fmt.Errorf("documents and embeddings length mismatch: %d vs %d", len(docs), len(embeddings))
	}

	ids := make([]string, len(docs))
	documents := make([]string, len(docs))
	metadatas := make([]map[string]any, len(docs))

	for i, doc := range docs {
		ids[i] = doc.ID
		documents[i] = doc.Text
		metadatas[i] = metadataToMap(doc.Metadata)
	}

	reqBody := chromaAddRequest{
		IDs:        ids,
		Embeddings: embeddings,
		Documents:  documents,
		Metadatas:  metadatas,
	}

	if err := d.post(ctx, "add", reqBody, nil); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}

	d.logger.Debug("added documents to chroma",
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query finds the topK documents nearest to the given embedding.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int, filter *vector.Filter) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	reqBody := chromaQueryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        topK,
		Include:         []string{"documents", "metadatas", "distances"},
	}
	if filter != nil && filter.Category != "" {
		reqBody.Where = map[string]any{"category": filter.Category}
	}

	var queryResp chromaQueryResponse
	if err := d.post(ctx, "query", reqBody, &queryResp); err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}

	var results []vector.QueryResult

	// Process first group (we only query with one embedding)
	if len(queryResp.IDs) == 0 || len(queryResp.IDs[0]) == 0 {
		return results, nil
	}

	ids := queryResp.IDs[0]
	distances := queryResp.Distances[0]

	var documents []string
	if len(queryResp.Documents) > 0 {
		documents = queryResp.Documents[0]
	}

	var metadatas []map[string]any
	if len(queryResp.Metadatas) > 0 {
		metadatas = queryResp.Metadatas[0]
	}

	for i, id := range ids {
		result := vector.QueryResult{
			Document: vector.Document{ID: id},
		}

		if i < len(documents) {
			result.Text = documents[i]
		}
		if i < len(metadatas) && metadatas[i] != nil {
			result.Metadata = metadataFromMap(metadatas[i])
		}
		if i < len(distances) {
			result.Distance = distances[i]
		}

		results = append(results, result)
	}

	d.logger.Debug("queried chroma",
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Count returns the number of documents in the collection.
func (d *Driver) Count(ctx context.Context) (int, error) {
	url := fmt.Sprintf("%s/api/v2/tenants/default_tenant/databases/default_database/collections/%s/count", d.baseURL, d.collectionID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating count request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sending count request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("failed to count documents: status %d: %s", resp.StatusCode, string(body))
	}

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("decoding count response: %w", err)
	}

	return count, nil
}

// Categories returns the sorted distinct categories in the collection.
// Chroma has no aggregation endpoint, so this scans document metadata.
func (d *Driver) Categories(ctx context.Context) ([]string, error) {
	reqBody := chromaGetRequest{
		Limit:   categoriesScanLimit,
		Include: []string{"metadatas"},
	}

	var getResp chromaGetResponse
	if err := d.post(ctx, "get", reqBody, &getResp); err != nil {
		return nil, fmt.Errorf("listing metadata: %w", err)
	}

	seen := make(map[string]bool)
	for _, md := range getResp.Metadatas {
		if md == nil {
			continue
		}
		if category, ok := md["category"].(string); ok && category != "" {
			seen[category] = true
		}
	}

	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return categories, nil
}

// Reset deletes and recreates the collection.
func (d *Driver) Reset(ctx context.Context) error {
	url := fmt.Sprintf("%s/api/v2/tenants/default_tenant/databases/default_database/collections/%s", d.baseURL, d.collectionName)

	req, err := http.NewRequestWithContext(ctx, "DELETE", url, nil)
	if err != nil {
		return fmt.Errorf("creating delete request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete collection: status %d: %s", resp.StatusCode, string(body))
	}

	collectionID, err := d.getOrCreateCollection(ctx)
	if err != nil {
		return fmt.Errorf("recreating collection: %w", err)
	}
	d.collectionID = collectionID

	return nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// post sends a JSON POST to a collection sub-endpoint and decodes the response.
func (d *Driver) post(ctx context.Context, action string, body any, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v2/tenants/default_tenant/databases/default_database/collections/%s/%s", d.baseURL, d.collectionID, action)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func metadataToMap(m vector.Metadata) map[string]any {
	return map[string]any{
		"name":     m.Name,
		"category": m.Category,
		"lat":      m.Lat,
		"lon":      m.Lon,
		"rating":   m.Rating,
	}
}

func metadataFromMap(m map[string]any) vector.Metadata {
	md := vector.Metadata{}
	if v, ok := m["name"].(string); ok {
		md.Name = v
	}
	if v, ok := m["category"].(string); ok {
		md.Category = v
	}
	if v, ok := m["lat"].(float64); ok {
		md.Lat = v
	}
	if v, ok := m["lon"].(float64); ok {
		md.Lon = v
	}
	if v, ok := m["rating"].(float64); ok {
		md.Rating = v
	}
	return md
}

// Ensure Driver implements vector.Driver.
var _ vector.Driver = (*Driver)(nil)
