package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/czestoguide/cityguide/pkg/pipeline"
)

// ChatRequest is the body of POST /api/chat and /api/chat/stream.
type ChatRequest struct {
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`

	// IncludeSources defaults to true when absent.
	IncludeSources *bool `json:"include_sources,omitempty"`
}

func (r ChatRequest) includeSources() bool {
	return r.IncludeSources == nil || *r.IncludeSources
}

// ModelSwitchRequest is the body of POST /api/models/switch.
type ModelSwitchRequest struct {
	Model string `json:"model"`
}

// ErrorResponse is the JSON error body returned on handler failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleChat answers a question synchronously.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	result, err := s.pipeline.Query(c.Context(), pipeline.Request{
		Question:      req.Message,
		Category:      req.Category,
		ReturnSources: req.includeSources(),
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyQuestion) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "no message provided"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "query failed"})
	}

	// Sources is always an array on the wire, empty when not requested.
	if result.Sources == nil {
		result.Sources = []pipeline.Source{}
	}

	return c.JSON(result)
}

// handleCategories returns the POI categories present in the index.
func (s *Server) handleCategories(c *fiber.Ctx) error {
	categories, err := s.pipeline.Categories(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list categories"})
	}

	return c.JSON(fiber.Map{"categories": categories})
}

// handleStatus reports index size and model readiness.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	status, err := s.pipeline.Status(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to get status"})
	}

	state := "ready"
	if status.DocumentCount == 0 {
		state = "no_data"
	}

	return c.JSON(fiber.Map{
		"status":            state,
		"documents_indexed": status.DocumentCount,
		"llm_available":     status.LLMAvailable,
		"current_model":     status.Model,
		"categories":        status.Categories,
	})
}

// handleModels lists the models offered by the generation backend.
func (s *Server) handleModels(c *fiber.Ctx) error {
	gen := s.pipeline.Generator()

	models, err := gen.Models(c.Context())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "model backend unreachable"})
	}

	return c.JSON(fiber.Map{
		"models":        models,
		"current_model": gen.CurrentModel(),
	})
}

// handleModelSwitch switches the active generation model and refreshes the
// pipeline's cached availability.
func (s *Server) handleModelSwitch(c *fiber.Ctx) error {
	var req ModelSwitchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "no model specified"})
	}

	gen := s.pipeline.Generator()
	if err := gen.SetModel(c.Context(), model); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	s.pipeline.RefreshAvailability(c.Context())

	return c.JSON(fiber.Map{
		"success":       true,
		"current_model": gen.CurrentModel(),
	})
}
