// Package reviewscmder provides the reviews command for enriching raw POIs
// with synthetic reviews and document text.
package reviewscmder

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/cliui"
	"github.com/czestoguide/cityguide/pkg/config"
	"github.com/czestoguide/cityguide/pkg/logger"
	"github.com/czestoguide/cityguide/pkg/poi"
	"github.com/czestoguide/cityguide/pkg/poi/reviews"
)

type reviewsCommander struct {
	dataDir string
	seed    int64

	debug  bool
	logger *zap.Logger
}

const reviewsLongDesc string = `Enrich raw POIs with synthetic visitor reviews and composed document
text, writing the result to czestochowa_pois.json.

Each POI gets one to four reviews drawn from category-specific templates,
an average rating, and a prose document ready for embedding. Run
"cityguide fetch" first to produce raw_pois.json.

Pass --seed to make the generated reviews reproducible.

Examples:
  cityguide reviews
  cityguide reviews --seed 42`

const reviewsShortDesc string = "Generate synthetic reviews for POIs"

func NewReviewsCmd() *cobra.Command {
	cmder := &reviewsCommander{}

	cmd := &cobra.Command{
		Use:   "reviews",
		Short: reviewsShortDesc,
		Long:  reviewsLongDesc,
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

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagDataDir, &cmder.dataDir)
	cmd.Flags().Int64Var(&cmder.seed, "seed", 0, "Random seed for review generation (0 = time-based)")

	return cmd
}

func (c *reviewsCommander) resolveConfig(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cmd.Flags().Changed(config.Flags[config.FlagDataDir].Name) {
		c.dataDir = cfger.DataDir(cfg)
	}

	return nil
}

func (c *reviewsCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	rawPath := filepath.Join(c.dataDir, poi.RawFilename)
	pois, err := poi.Load(rawPath)
	if err != nil {
		return fmt.Errorf("loading raw POIs (run \"cityguide fetch\" first): %w", err)
	}

	seed := c.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gen := reviews.NewGenerator(seed)
	err = cliui.Step(os.Stdout, fmt.Sprintf("Enriching %d POIs with reviews", len(pois)), func() error {
		gen.Enrich(pois)
		return nil
	})
	if err != nil {
		return err
	}

	outPath := filepath.Join(c.dataDir, poi.EnrichedFilename)
	if err := poi.Save(outPath, pois); err != nil {
		return err
	}

	fmt.Printf("\n  Saved enriched dataset to %s\n", outPath)

	if len(pois) > 0 {
		sample := pois[0]
		fmt.Printf("\n  Sample enriched POI:\n")
		fmt.Printf("    %s %s\n", cliui.KeyStyle.Render("Name:"), sample.Name)
		fmt.Printf("    %s %s\n", cliui.KeyStyle.Render("Category:"), sample.Category)
		fmt.Printf("    %s %.1f/5\n", cliui.KeyStyle.Render("Rating:"), sample.AverageRating())
	}
	fmt.Println()

	return nil
}
