// Package configcmder provides the config command for managing persistent
// cityguide configuration stored in the .cityguide/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent cityguide configuration.

Configuration is stored as config.toml in the .cityguide/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  overpass.url, data.dir,
  vector_store.provider, vector_store.target, vector_store.collection,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  llm.target, llm.model, rag.top_k, api.listen

Use subcommands to get, set, or list configuration values:
  cityguide config set <key> <value>    Set a configuration value
  cityguide config get <key>            Get a configuration value
  cityguide config list                 List all configuration values

Examples:
  cityguide config set vector_store.provider qdrant
  cityguide config set llm.model mistral:7b
  cityguide config get embedding.model
  cityguide config list`

const configShortDesc string = "Manage persistent cityguide configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
