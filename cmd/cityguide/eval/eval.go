// Package evalcmder provides the eval command for scoring answer quality
// against a test question set.
package evalcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/cliui"
	"github.com/czestoguide/cityguide/pkg/config"
	"github.com/czestoguide/cityguide/pkg/evaluation"
	"github.com/czestoguide/cityguide/pkg/logger"
	pipelineutils "github.com/czestoguide/cityguide/pkg/pipeline/utils"
)

type evalCommander struct {
	questionsPath string
	reportPath    string

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

const evalLongDesc string = `Evaluate the QA system against a keyword-annotated question set.

Each question is answered through the full pipeline and scored on keyword
overlap, semantic similarity, retrieval relevance, answer length, and
latency. A JSON report with per-question details and aggregate statistics
is written to the report path.

The question file is a JSON array of objects:
  [{"question": "...", "expected_keywords": ["..."], "category_hint": "..."}]

Examples:
  cityguide eval --questions test_questions.json
  cityguide eval --questions test_questions.json --report evaluation_report.json`

const evalShortDesc string = "Evaluate answer quality"

func NewEvalCmd() *cobra.Command {
	cmder := &evalCommander{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: evalShortDesc,
		Long:  evalLongDesc,
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

	cmd.Flags().StringVarP(&cmder.questionsPath, "questions", "q", "test_questions.json", "Path to the test question set")
	cmd.Flags().StringVarP(&cmder.reportPath, "report", "r", "evaluation_report.json", "Path for the JSON report")
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

func (c *evalCommander) resolveConfig(cmd *cobra.Command) error {
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
		config.FlagLLMTarget,
		config.FlagLLMModel,
	})

	c.cfg = config.FromViper(v)

	return nil
}

func (c *evalCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	questions, err := evaluation.LoadQuestions(c.questionsPath)
	if err != nil {
		return err
	}
	fmt.Printf("\n  Loaded %d test questions\n", len(questions))

	stack, err := pipelineutils.NewStack(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	status, err := stack.Pipeline.Status(ctx)
	if err != nil {
		return fmt.Errorf("getting pipeline status: %w", err)
	}
	if status.DocumentCount == 0 {
		return fmt.Errorf("no documents indexed, run cityguide fetch/reviews/index first")
	}
	fmt.Printf("  %s %d indexed documents\n", cliui.SuccessMark, status.DocumentCount)

	llmMark := cliui.SuccessMark
	if !status.LLMAvailable {
		llmMark = cliui.FailMark
	}
	fmt.Printf("  %s LLM available: %v\n\n", llmMark, status.LLMAvailable)

	runner := evaluation.NewRunner(stack.Pipeline, stack.Embedder, c.logger)

	var report *evaluation.Report
	err = cliui.Step(os.Stdout, fmt.Sprintf("Evaluating %d questions", len(questions)), func() error {
		var err error
		report, err = runner.Run(ctx, questions)
		return err
	})
	if err != nil {
		return err
	}

	printSummary(report)

	if err := report.Save(c.reportPath); err != nil {
		return err
	}
	fmt.Printf("  Report saved to %s\n\n", c.reportPath)

	return nil
}

func printSummary(report *evaluation.Report) {
	summary := report.Summarize()

	fmt.Printf("\n  Evaluated %d questions\n\n", summary.TotalQuestions)
	fmt.Println("  Average metrics:")
	for _, name := range []string{"keyword_overlap", "semantic_similarity", "retrieval_relevance", "combined_score"} {
		if v, ok := summary.AverageMetrics[name]; ok {
			fmt.Printf("    %s %.3f\n", cliui.KeyStyle.Render(name+":"), v)
		}
	}
	if v, ok := summary.AverageMetrics["latency_ms"]; ok {
		fmt.Printf("    %s %.0fms\n", cliui.KeyStyle.Render("latency:"), v)
	}

	combined := summary.AverageMetrics["combined_score"]
	switch {
	case combined >= 0.7:
		fmt.Printf("\n  %s System performance: GOOD\n\n", cliui.SuccessMark)
	case combined >= 0.5:
		fmt.Printf("\n  System performance: ACCEPTABLE\n\n")
	default:
		fmt.Printf("\n  %s System performance: NEEDS IMPROVEMENT\n\n", cliui.FailMark)
	}
}
