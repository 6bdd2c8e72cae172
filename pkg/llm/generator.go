// Package llm defines the language-model contract the query pipeline
// consumes, plus the prompt layout used for grounded answers.
package llm

import "context"

// Generator produces answer text from a question and retrieved context.
type Generator interface {
	// IsAvailable reports whether the backing model can be reached.
	// Transport errors report false, never an error.
	IsAvailable(ctx context.Context) bool

	// Generate returns the full answer for a question grounded in context.
	Generate(ctx context.Context, question, context string) (string, error)

	// GenerateStream streams answer fragments to fn in emission order;
	// concatenating the fragments yields the full answer. Generation stops
	// when ctx is canceled or fn returns an error.
	GenerateStream(ctx context.Context, question, context string, fn func(chunk string) error) error

	// Models lists the model identifiers available from the backend.
	Models(ctx context.Context) ([]string, error)

	// CurrentModel returns the active model identifier.
	CurrentModel() string

	// SetModel switches to another available model. It fails when the
	// backend does not offer the model.
	SetModel(ctx context.Context, model string) error
}