package testutil

import (
	"context"
	"sync"

	"thinky/model"
)

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable responses
	CompleteFunc func(ctx context.Context, req model.CompletionRequest) (string, error)
	PingFunc     func(ctx context.Context) error

	mu           sync.Mutex
	requests     []model.CompletionRequest
	currentModel string
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
	}
	mock.CompleteFunc = mock.defaultComplete
	mock.PingFunc = mock.defaultPing
	return mock
}

func (m *MockProvider) defaultComplete(ctx context.Context, req model.CompletionRequest) (string, error) {
	return "Mock response", nil
}

func (m *MockProvider) defaultPing(ctx context.Context) error {
	return nil
}

func (m *MockProvider) Complete(ctx context.Context, req model.CompletionRequest) (string, error) {
	m.mu.Lock()
	history := make([]model.Turn, len(req.History))
	copy(history, req.History)
	req.History = history
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	return m.CompleteFunc(ctx, req)
}

// Requests returns every request received so far
func (m *MockProvider) Requests() []model.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockProvider) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentModel
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}
