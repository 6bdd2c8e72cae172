// Package cityguidecmder
package cityguidecmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/czestoguide/cityguide/cmd/cityguide/config"
	evalcmder "github.com/czestoguide/cityguide/cmd/cityguide/eval"
	fetchcmder "github.com/czestoguide/cityguide/cmd/cityguide/fetch"
	indexcmder "github.com/czestoguide/cityguide/cmd/cityguide/index"
	querycmder "github.com/czestoguide/cityguide/cmd/cityguide/query"
	reviewscmder "github.com/czestoguide/cityguide/cmd/cityguide/reviews"
	servecmder "github.com/czestoguide/cityguide/cmd/cityguide/serve"
	versioncmder "github.com/czestoguide/cityguide/cmd/version"
)

const cityguideLongDesc string = `Cityguide is a question answering system for Częstochowa, Poland,
grounded in OpenStreetMap points of interest.

Build the dataset and ask questions using:
  cityguide fetch      Fetch POIs from OpenStreetMap
  cityguide reviews    Generate synthetic reviews for the dataset
  cityguide index      Embed and index POI documents
  cityguide query      Ask a question from the terminal
  cityguide serve      Run the HTTP API server
  cityguide eval       Evaluate answer quality`

const cityguideShortDesc string = "Cityguide - Częstochowa City Guide QA"

func NewCityguideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cityguide",
		Short: cityguideShortDesc,
		Long:  cityguideLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .cityguide/ config directory")

	// Add subcommands
	cmd.AddCommand(fetchcmder.NewFetchCmd())
	cmd.AddCommand(reviewscmder.NewReviewsCmd())
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(querycmder.NewQueryCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(evalcmder.NewEvalCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
