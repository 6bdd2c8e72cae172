package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/pipeline"
)

// Server is the API server for querying the city guide.
type Server struct {
	config   Config
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
	app      *fiber.App
}

// NewServer creates a new API server.
// The pipeline is injected to allow sharing with CLI commands.
func NewServer(config Config, p *pipeline.Pipeline, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		pipeline: p,
		logger:   logger,
		app:      app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/api/chat", s.handleChat)
	app.Post("/api/chat/stream", s.handleChatStream)
	app.Get("/api/categories", s.handleCategories)
	app.Get("/api/status", s.handleStatus)
	app.Get("/api/models", s.handleModels)
	app.Post("/api/models/switch", s.handleModelSwitch)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
