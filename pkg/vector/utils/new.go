package vectorutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/vector"
	"github.com/czestoguide/cityguide/pkg/vector/chroma"
	"github.com/czestoguide/cityguide/pkg/vector/inmemory"
	"github.com/czestoguide/cityguide/pkg/vector/qdrant"
	"github.com/czestoguide/cityguide/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType string
	Target       string
	Collection   string
	Dimensions   uint
	Logger       *zap.Logger
}

// NewVectorDriver creates a vector driver for the configured provider.
// Supported providers: "chroma", "qdrant", "sqlite-vec", "memory".
func NewVectorDriver(o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL:            o.Target,
			CollectionName: o.Collection,
		}, o.Logger)
	case "qdrant":
		return qdrant.NewDriver(qdrant.Config{
			Addr:           o.Target,
			CollectionName: o.Collection,
		}, o.Logger)
	case "sqlite-vec":
		return sqlitevec.NewDriver(sqlitevec.Config{
			DBPath:     o.Target,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "memory":
		return inmemory.NewDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
