package testutils

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator is a test LLM generator with scriptable availability,
// answers, and stream chunks
type MockGenerator struct {
	Available bool
	Answer    string
	Chunks    []string
	Model     string

	// GenerateErr and StreamErr make the corresponding call fail
	GenerateErr error
	StreamErr   error

	// LastQuestion and LastContext record the most recent generation inputs
	LastQuestion string
	LastContext  string

	// AvailableModels backs Models and SetModel validation
	AvailableModels []string
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		Available:       true,
		Answer:          "mock answer",
		Model:           "mock-model",
		AvailableModels: []string{"mock-model"},
	}
}

func (m *MockGenerator) IsAvailable(_ context.Context) bool {
	return m.Available
}

func (m *MockGenerator) Generate(_ context.Context, question, context_ string) (string, error) {
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	m.LastQuestion = question
	m.LastContext = context_
	return m.Answer, nil
}

func (m *MockGenerator) GenerateStream(_ context.Context, question, context_ string, fn func(chunk string) error) error {
	if m.StreamErr != nil {
		return m.StreamErr
	}
	m.LastQuestion = question
	m.LastContext = context_

	chunks := m.Chunks
	if len(chunks) == 0 {
		chunks = strings.SplitAfter(m.Answer, " ")
	}
	for _, c := range chunks {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockGenerator) Models(_ context.Context) ([]string, error) {
	return m.AvailableModels, nil
}

func (m *MockGenerator) CurrentModel() string {
	return m.Model
}

func (m *MockGenerator) SetModel(_ context.Context, model string) error {
	for _, name := range m.AvailableModels {
		if name == model {
			m.Model = model
			return nil
		}
	}
	return fmt.Errorf("model %q not available", model)
}
