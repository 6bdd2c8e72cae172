// Package indexcmder provides the index command for embedding and loading
// POI documents into the vector store.
package indexcmder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/cliui"
	"github.com/czestoguide/cityguide/pkg/config"
	embeddingutils "github.com/czestoguide/cityguide/pkg/embeddings/utils"
	"github.com/czestoguide/cityguide/pkg/indexer"
	"github.com/czestoguide/cityguide/pkg/logger"
	"github.com/czestoguide/cityguide/pkg/poi"
	vectorutils "github.com/czestoguide/cityguide/pkg/vector/utils"
)

type indexCommander struct {
	dataDir string
	reindex bool

	vectorProvider string
	vectorTarget   string
	collection     string
	embedProvider  string
	embedTarget    string
	embedModel     string

	cfg *config.Config

	debug  bool
	logger *zap.Logger
}

const indexLongDesc string = `Embed the enriched POI documents and load them into the vector store.

Reads czestochowa_pois.json from the data directory, embeds each POI's
document text, and writes the vectors in batches. POIs without document
text are skipped. If the store already holds documents the run is a no-op
unless --reindex is given, which resets the store first.

Examples:
  cityguide index
  cityguide index --reindex
  cityguide index --vector-store-provider qdrant --vector-store-target localhost:6334`

const indexShortDesc string = "Embed and index POI documents"

func NewIndexCmd() *cobra.Command {
	cmder := &indexCommander{}

	cmd := &cobra.Command{
		Use:   "index",
		Short: indexShortDesc,
		Long:  indexLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.resolveConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&cmder.reindex, "reindex", false, "Reset the store and re-index from scratch")
	config.AddStringFlag(cmd, config.Flags, config.FlagDataDir, &cmder.dataDir)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagCollection, &cmder.collection)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &cmder.embedProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &cmder.embedModel)

	return cmd
}

func (c *indexCommander) resolveConfig(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, []string{
		config.FlagVectorStoreProv,
		config.FlagVectorStoreTgt,
		config.FlagCollection,
		config.FlagEmbeddingProv,
		config.FlagEmbeddingTgt,
		config.FlagEmbeddingModel,
	})

	c.cfg = config.FromViper(v)

	if !cmd.Flags().Changed(config.Flags[config.FlagDataDir].Name) {
		cfger, err := config.NewConfiger(configDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		c.dataDir = cfger.DataDir(c.cfg)
	}

	return nil
}

func (c *indexCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	path := filepath.Join(c.dataDir, poi.EnrichedFilename)
	pois, err := poi.Load(path)
	if err != nil {
		return fmt.Errorf("loading enriched POIs (run \"cityguide reviews\" first): %w", err)
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: c.cfg.Embedding.Provider,
		TargetURL:    c.cfg.Embedding.Target,
		Model:        c.cfg.Embedding.Model,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	defer embedder.Close()

	store, err := vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType: c.cfg.VectorStore.Provider,
		Target:       c.cfg.VectorStore.Target,
		Collection:   c.cfg.VectorStore.Collection,
		Dimensions:   c.cfg.Embedding.Dimensions,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating vector driver: %w", err)
	}
	defer store.Close()

	ix := indexer.New(embedder, store, c.logger)

	var stats *indexer.Stats
	err = cliui.Step(os.Stdout, fmt.Sprintf("Indexing %d POIs", len(pois)), func() error {
		var err error
		stats, err = ix.Index(ctx, pois, c.reindex)
		return err
	})
	if err != nil {
		return err
	}

	if stats.Indexed == 0 && stats.Total > 0 {
		fmt.Printf("\n  Collection already has %d documents. Use --reindex to re-index.\n\n", stats.Total)
		return nil
	}

	fmt.Printf("\n  Indexed %d documents (%d skipped). Total in store: %d\n\n",
		stats.Indexed, stats.Skipped, stats.Total)

	return nil
}
