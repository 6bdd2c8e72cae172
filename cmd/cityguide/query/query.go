// Package querycmder provides the query command for asking questions from
// the terminal.
package querycmder

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/cliui"
	"github.com/czestoguide/cityguide/pkg/config"
	"github.com/czestoguide/cityguide/pkg/logger"
	"github.com/czestoguide/cityguide/pkg/pipeline"
	pipelineutils "github.com/czestoguide/cityguide/pkg/pipeline/utils"
)

var (
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
)

type queryCommander struct {
	question string
	category string
	topK     int
	raw      bool

	vectorProvider string
	vectorTarget   string
	collection     string
	embedProvider  string
	embedTarget    string
	embedModel     string
	llmTarget      string
	llmModel       string

	cfg *config.Config

	debug  bool
	logger *zap.Logger
}

const queryLongDesc string = `Ask the city guide a question from the terminal.

Retrieves the most relevant POI documents, grounds the language model on
them, and prints the answer with its sources. When Ollama is unreachable
the answer falls back to the retrieved text.

Examples:
  cityguide query "Where can I eat pierogi?"
  cityguide query "Best hotels near Jasna Góra" --top-k 5
  cityguide query "Where should I have coffee?" --category cafe`

const queryShortDesc string = "Ask a question from the terminal"

func NewQueryCmd() *cobra.Command {
	cmder := &queryCommander{}

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: queryShortDesc,
		Long:  queryLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.resolveConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.question = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.category, "category", "c", "", "Restrict retrieval to one POI category")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print the answer without markdown rendering")
	config.AddIntFlag(cmd, config.Flags, config.FlagTopK, &cmder.topK)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagCollection, &cmder.collection)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &cmder.embedProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &cmder.embedModel)
	config.AddStringFlag(cmd, config.Flags, config.FlagLLMTarget, &cmder.llmTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagLLMModel, &cmder.llmModel)

	return cmd
}

func (c *queryCommander) resolveConfig(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, []string{
		config.FlagTopK,
		config.FlagVectorStoreProv,
		config.FlagVectorStoreTgt,
		config.FlagCollection,
		config.FlagEmbeddingProv,
		config.FlagEmbeddingTgt,
		config.FlagEmbeddingModel,
		config.FlagLLMTarget,
		config.FlagLLMModel,
	})

	c.cfg = config.FromViper(v)

	return nil
}

func (c *queryCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	stack, err := pipelineutils.NewStack(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	var result *pipeline.Result
	err = cliui.Step(os.Stdout, "Thinking", func() error {
		var err error
		result, err = stack.Pipeline.Query(ctx, pipeline.Request{
			Question:      c.question,
			Category:      c.category,
			TopK:          c.topK,
			ReturnSources: true,
		})
		return err
	})
	if err != nil {
		return err
	}

	c.printAnswer(result)

	return nil
}

func (c *queryCommander) printAnswer(result *pipeline.Result) {
	answer := result.Answer
	if !c.raw {
		if rendered, err := cliui.RenderMarkdown(answer); err == nil {
			answer = rendered
		}
	}
	fmt.Printf("\n%s\n", answerStyle.Render(answer))

	if len(result.Sources) > 0 {
		fmt.Println("  Sources:")
		for i, src := range result.Sources {
			line := fmt.Sprintf("(%s, relevance %.2f)", src.Category, src.Relevance)
			if src.Rating > 0 {
				line += fmt.Sprintf(", rated %.1f/5", src.Rating)
			}
			fmt.Printf("    %d. %s %s\n", i+1, nameStyle.Render(src.Name), cliui.SourceStyle.Render(line))
		}
	}

	fmt.Printf("\n  %s\n\n", cliui.StepStyle.Render(fmt.Sprintf(
		"%d documents, %dms total (retrieval %dms, generation %dms), llm=%v",
		result.Metadata.DocumentsRetrieved,
		result.Metadata.TotalTimeMs,
		result.Metadata.RetrievalTimeMs,
		result.Metadata.GenerationTimeMs,
		result.Metadata.LLMAvailable,
	)))
}
