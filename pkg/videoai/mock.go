package videoai

import (
	"context"
	"sync"
)

// MockVideoModel is a configurable mock for testing.
// Set AnalyzeFunc to control behavior in tests.
type MockVideoModel struct {
	// AnalyzeFunc is called when Analyze is invoked.
	// If nil, returns Response and nil error.
	AnalyzeFunc func(ctx context.Context, req *Request) (string, error)

	// Response is returned when AnalyzeFunc is nil.
	Response string

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	mu       sync.Mutex
	requests []*Request
}

var _ VideoModel = (*MockVideoModel)(nil)

// NewMockVideoModel creates a new mock with sensible defaults.
func NewMockVideoModel() *MockVideoModel {
	return &MockVideoModel{ModelName: "mock-model"}
}

// Analyze implements VideoModel.
func (m *MockVideoModel) Analyze(ctx context.Context, req *Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, req)
	}
	return m.Response, nil
}

// Model implements VideoModel.
func (m *MockVideoModel) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Calls returns the number of Analyze calls so far.
func (m *MockVideoModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the requests received so far.
func (m *MockVideoModel) Requests() []*Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Request, len(m.requests))
	copy(out, m.requests)
	return out
}
