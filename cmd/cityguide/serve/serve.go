// Package servecmder provides the serve command for running the HTTP API.
package servecmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/api"
	"github.com/czestoguide/cityguide/pkg/config"
	"github.com/czestoguide/cityguide/pkg/logger"
	pipelineutils "github.com/czestoguide/cityguide/pkg/pipeline/utils"
)

type serveCommander struct {
	listen string

	vectorProvider string
	vectorTarget   string
	collection     string
	embedProvider  string
	embedTarget    string
	embedModel     string
	llmTarget      string
	llmModel       string
	topK           int

	cfg *config.Config

	debug  bool
	logger *zap.Logger
}

const serveLongDesc string = `Run the city guide HTTP API server.

Endpoints:
  POST /api/chat           Answer a question (JSON)
  POST /api/chat/stream    Answer a question (Server-Sent Events)
  GET  /api/categories     List indexed POI categories
  GET  /api/status         Index size, model, and availability
  GET  /api/models         List available Ollama models
  POST /api/models/switch  Switch the generation model
  GET  /ping               Health check

Examples:
  cityguide serve
  cityguide serve --listen :5001
  CITYGUIDE_LLM_MODEL=mistral:7b cityguide serve`

const serveShortDesc string = "Run the HTTP API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
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

	config.AddStringFlag(cmd, config.Flags, config.FlagAPIListen, &cmder.listen)
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

func (c *serveCommander) resolveConfig(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, []string{
		config.FlagAPIListen,
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

func (c *serveCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	stack, err := pipelineutils.NewStack(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	status, err := stack.Pipeline.Status(ctx)
	if err != nil {
		c.logger.Warn("could not get pipeline status", zap.Error(err))
	} else {
		if status.DocumentCount == 0 {
			c.logger.Warn("no documents indexed, run cityguide fetch/reviews/index first")
		} else {
			c.logger.Info("index ready", zap.Int("documents", status.DocumentCount))
		}
		if !status.LLMAvailable {
			c.logger.Warn("llm not available, answers will use fallback mode",
				zap.String("model", status.Model))
		}
	}

	server := api.NewServer(api.Config{
		ListenAddr: c.cfg.API.Listen,
	}, stack.Pipeline, c.logger)

	return server.Run()
}
