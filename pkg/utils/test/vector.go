package testutils

import (
	"context"

	"github.com/czestoguide/cityguide/pkg/vector"
)

// MockVectorDriver is a test vector driver
type MockVectorDriver struct {
	Documents []vector.Document
	Results   []vector.QueryResult

	// QueryErr, CountErr, and CategoriesErr make the corresponding call fail
	QueryErr      error
	CountErr      error
	CategoriesErr error

	// LastFilter records the filter from the most recent Query call
	LastFilter *vector.Filter
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		Documents: make([]vector.Document, 0),
		Results:   make([]vector.QueryResult, 0),
	}
}

func (m *MockVectorDriver) Add(_ context.Context, docs []vector.Document, _ [][]float32) error {
	m.Documents = append(m.Documents, docs...)
	return nil
}

func (m *MockVectorDriver) Query(_ context.Context, _ []float32, topK int, filter *vector.Filter) ([]vector.QueryResult, error) {
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	m.LastFilter = filter

	results := m.Results
	if filter != nil && filter.Category != "" {
		filtered := make([]vector.QueryResult, 0, len(results))
		for _, r := range results {
			if r.Metadata.Category == filter.Category {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	if len(results) < topK {
		return results, nil
	}
	return results[:topK], nil
}

func (m *MockVectorDriver) Count(_ context.Context) (int, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return len(m.Documents) + len(m.Results), nil
}

func (m *MockVectorDriver) Categories(_ context.Context) ([]string, error) {
	if m.CategoriesErr != nil {
		return nil, m.CategoriesErr
	}

	seen := make(map[string]bool)
	var categories []string
	for _, d := range m.Documents {
		if d.Metadata.Category != "" && !seen[d.Metadata.Category] {
			seen[d.Metadata.Category] = true
			categories = append(categories, d.Metadata.Category)
		}
	}
	for _, r := range m.Results {
		if r.Metadata.Category != "" && !seen[r.Metadata.Category] {
			seen[r.Metadata.Category] = true
			categories = append(categories, r.Metadata.Category)
		}
	}
	return categories, nil
}

func (m *MockVectorDriver) Reset(_ context.Context) error {
	m.Documents = m.Documents[:0]
	m.Results = m.Results[:0]
	return nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}
