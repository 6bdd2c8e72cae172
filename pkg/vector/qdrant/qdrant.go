// Package qdrant provides a Qdrant-backed vector driver over gRPC.
package qdrant

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/czestoguide/cityguide/pkg/vector"
)

const (
	// DefaultCollectionName is the default collection for POI documents.
	DefaultCollectionName = "czestochowa_pois"

	// categoriesScanLimit bounds the payload scroll used to enumerate
	// categories.
	categoriesScanLimit = 1000
)

// pointNamespace derives deterministic UUID point ids from document ids,
// so re-indexing the same POI updates its point instead of duplicating it.
var pointNamespace = uuid.MustParse("8f9e3a52-7c41-4b6e-9d15-2e8a0c4b7f63")

// Driver implements vector.Driver on Qdrant's gRPC API.
type Driver struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	logger      *zap.Logger
}

// Config holds configuration for the Qdrant driver.
type Config struct {
	// Addr is the Qdrant gRPC address (e.g., "localhost:6334").
	Addr string

	// CollectionName is the name of the collection to use.
	// Defaults to DefaultCollectionName if empty.
	CollectionName string
}

// NewDriver creates a new Qdrant vector driver.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.Addr == "" {
		return nil, fmt.Errorf("qdrant address is required")
	}

	collection := c.CollectionName
	if collection == "" {
		collection = DefaultCollectionName
	}

	conn, err := grpc.NewClient(c.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: dialing qdrant %s: %v", vector.ErrConnection, c.Addr, err)
	}

	logger.Info("connected to Qdrant",
		zap.String("addr", c.Addr),
		zap.String("collection", collection),
	)

	return &Driver{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
		logger:      logger,
	}, nil
}

// ensureCollection creates the collection with the given dimension if it
// does not already exist.
func (d *Driver) ensureCollection(ctx context.Context, dims int) error {
	list, err := d.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("listing collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == d.collection {
			return nil
		}
	}

	_, err = d.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: d.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", d.collection, err)
	}
	return nil
}

// Add stores documents with their embeddings.
func (d *Driver) Add(ctx context.Context, docs []vector.Document, embeddings [][]float32) error {
	if len(docs) == 0 {
		return nil
	}
	if len(docs) != len(embeddings) {
		return fmt.Errorf("documents and embeddings length mismatch: %d vs %d", len(docs), len(embeddings))
	}

	if err := d.ensureCollection(ctx, len(embeddings[0])); err != nil {
		return err
	}

	points := make([]*pb.PointStruct, len(docs))
	for i, doc := range docs {
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{
					Uuid: uuid.NewSHA1(pointNamespace, []byte(doc.ID)).String(),
				},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: embeddings[i]},
				},
			},
			Payload: map[string]*pb.Value{
				"doc_id":   {Kind: &pb.Value_StringValue{StringValue: doc.ID}},
				"text":     {Kind: &pb.Value_StringValue{StringValue: doc.Text}},
				"name":     {Kind: &pb.Value_StringValue{StringValue: doc.Metadata.Name}},
				"category": {Kind: &pb.Value_StringValue{StringValue: doc.Metadata.Category}},
				"lat":      {Kind: &pb.Value_DoubleValue{DoubleValue: doc.Metadata.Lat}},
				"lon":      {Kind: &pb.Value_DoubleValue{DoubleValue: doc.Metadata.Lon}},
				"rating":   {Kind: &pb.Value_DoubleValue{DoubleValue: doc.Metadata.Rating}},
			},
		}
	}

	wait := true
	_, err := d.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: d.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}

	d.logger.Debug("added documents to qdrant",
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query finds the topK documents nearest to the given embedding.
// Qdrant reports cosine similarity (higher = more similar); it is converted
// to a distance so results match the Driver contract.
func (d *Driver) Query(ctx context.Context, embedding []float32, topK int, filter *vector.Filter) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	req := &pb.SearchPoints{
		CollectionName: d.collection,
		Vector:         embedding,
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	}

	if filter != nil && filter.Category != "" {
		req.Filter = &pb.Filter{
			Must: []*pb.Condition{fieldMatch("category", filter.Category)},
		}
	}

	resp, err := d.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}

	results := make([]vector.QueryResult, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		payload := r.GetPayload()
		results[i] = vector.QueryResult{
			Document: vector.Document{
				ID:   payload["doc_id"].GetStringValue(),
				Text: payload["text"].GetStringValue(),
				Metadata: vector.Metadata{
					Name:     payload["name"].GetStringValue(),
					Category: payload["category"].GetStringValue(),
					Lat:      payload["lat"].GetDoubleValue(),
					Lon:      payload["lon"].GetDoubleValue(),
					Rating:   payload["rating"].GetDoubleValue(),
				},
			},
			Distance: 1 - r.GetScore(),
		}
	}

	d.logger.Debug("queried qdrant",
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Count returns the number of documents in the collection.
func (d *Driver) Count(ctx context.Context) (int, error) {
	exact := true
	resp, err := d.points.Count(ctx, &pb.CountPoints{
		CollectionName: d.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("counting points: %w", err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// Categories returns the sorted distinct categories in the collection,
// collected by scrolling point payloads.
func (d *Driver) Categories(ctx context.Context) ([]string, error) {
	limit := uint32(categoriesScanLimit)
	resp, err := d.points.Scroll(ctx, &pb.ScrollPoints{
		CollectionName: d.collection,
		Limit:          &limit,
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("scrolling points: %w", err)
	}

	seen := make(map[string]bool)
	for _, point := range resp.GetResult() {
		if category := point.GetPayload()["category"].GetStringValue(); category != "" {
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

// Reset drops the collection. It is recreated on the next Add.
func (d *Driver) Reset(ctx context.Context) error {
	_, err := d.collections.Delete(ctx, &pb.DeleteCollection{
		CollectionName: d.collection,
	})
	if err != nil {
		return fmt.Errorf("deleting collection %s: %w", d.collection, err)
	}
	return nil
}

// Close closes the underlying gRPC connection.
func (d *Driver) Close() error {
	return d.conn.Close()
}

func fieldMatch(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}

// Ensure Driver implements vector.Driver.
var _ vector.Driver = (*Driver)(nil)
