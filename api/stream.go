package api

import (
	"context"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/czestoguide/cityguide/pkg/pipeline"
	"github.com/czestoguide/cityguide/pkg/sse"
)

// handleChatStream answers a question as a Server-Sent Events stream:
// one sources event, answer fragments as they are generated, then done.
func (s *Server) handleChatStream(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "no message provided"})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("X-Accel-Buffering", "no")

	// Use io.Pipe + SetBodyStream rather than SetBodyStreamWriter.
	// pw.Write blocks until fasthttp's chunked writer consumes the data, so
	// each event reaches the TCP socket before the next one is produced.
	// When the client disconnects the write fails, which aborts the stream
	// callback and cancels generation.
	pr, pw := io.Pipe()
	go s.streamToPipe(pw, req)

	// Unknown size (-1) triggers chunked transfer encoding in fasthttp.
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// streamToPipe runs the pipeline's streaming query, framing each event as
// SSE onto the pipe writer.
func (s *Server) streamToPipe(pw *io.PipeWriter, req ChatRequest) {
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := sse.NewWriter(pw)

	err := s.pipeline.QueryStream(ctx, pipeline.Request{
		Question: req.Message,
		Category: req.Category,
	}, func(ev pipeline.StreamEvent) error {
		if err := w.WriteJSON(ev.Type, ev); err != nil {
			// Client went away; stop generation.
			cancel()
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("streaming query aborted", zap.Error(err))
	}
}
