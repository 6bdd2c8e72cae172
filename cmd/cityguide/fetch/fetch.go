// Package fetchcmder provides the fetch command for pulling POIs from
// OpenStreetMap.
package fetchcmder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/cliui"
	"github.com/czestoguide/cityguide/pkg/config"
	"github.com/czestoguide/cityguide/pkg/logger"
	"github.com/czestoguide/cityguide/pkg/poi"
	"github.com/czestoguide/cityguide/pkg/poi/overpass"
)

type fetchCommander struct {
	overpassURL string
	dataDir     string

	debug  bool
	logger *zap.Logger
}

const fetchLongDesc string = `Fetch points of interest for Częstochowa from the OpenStreetMap
Overpass API and save them as raw_pois.json in the data directory.

Queries restaurants, cafes, museums, hotels, attractions, religious sites,
parks, historic sites, nightlife, and shops. Elements without a name are
skipped.

Examples:
  cityguide fetch
  cityguide fetch --data-dir ./data
  cityguide fetch --overpass-url https://overpass.kumi.systems/api/interpreter`

const fetchShortDesc string = "Fetch POIs from OpenStreetMap"

func NewFetchCmd() *cobra.Command {
	cmder := &fetchCommander{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: fetchShortDesc,
		Long:  fetchLongDesc,
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

	config.AddStringFlag(cmd, config.Flags, config.FlagOverpassURL, &cmder.overpassURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagDataDir, &cmder.dataDir)

	return cmd
}

// resolveConfig fills unset flags from the config file.
func (c *fetchCommander) resolveConfig(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cmd.Flags().Changed(config.Flags[config.FlagOverpassURL].Name) {
		c.overpassURL = cfg.Overpass.URL
	}
	if !cmd.Flags().Changed(config.Flags[config.FlagDataDir].Name) {
		c.dataDir = cfger.DataDir(cfg)
	}

	return nil
}

func (c *fetchCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	client := overpass.NewClient(overpass.Config{URL: c.overpassURL})

	var pois []poi.POI
	err := cliui.Step(os.Stdout, "Fetching POIs from OpenStreetMap", func() error {
		var err error
		pois, err = client.Fetch(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("fetching POIs: %w", err)
	}

	path := filepath.Join(c.dataDir, poi.RawFilename)
	if err := poi.Save(path, pois); err != nil {
		return err
	}

	fmt.Printf("\n  Saved %d POIs to %s\n\n", len(pois), path)
	printCategorySummary(pois)

	return nil
}

func printCategorySummary(pois []poi.POI) {
	counts := poi.CountByCategory(pois)

	categories := make([]string, 0, len(counts))
	for cat := range counts {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})

	fmt.Println("  POIs by category:")
	for _, cat := range categories {
		fmt.Printf("    %s %d\n", cliui.KeyStyle.Render(cat+":"), counts[cat])
	}
	fmt.Println()
}
