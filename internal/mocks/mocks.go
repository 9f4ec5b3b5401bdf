// Package mocks provides mock implementations of core interfaces for testing.
package mocks

import (
	"context"

	"trilion/internal/analyzer"
	"trilion/internal/pipeline"
	"trilion/internal/types"
	"trilion/pkg/publisher"

	"github.com/stretchr/testify/mock"
)

// MockPipelineRunner is a mock implementation of pipeline.Runner
type MockPipelineRunner struct {
	mock.Mock
}

func (m *MockPipelineRunner) Run(ctx context.Context, req pipeline.RunRequest) (*types.PipelineResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PipelineResult), args.Error(1)
}

// MockDiscoverer is a mock implementation of analyzer.Discoverer
type MockDiscoverer struct {
	mock.Mock
}

func (m *MockDiscoverer) Name() string {
	return "mock"
}

func (m *MockDiscoverer) Discover(ctx context.Context, req analyzer.Request) ([]types.Highlight, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Highlight), args.Error(1)
}

// MockTranscriber is a mock implementation of analyzer.Transcriber
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath, model string) (string, error) {
	args := m.Called(ctx, audioPath, model)
	return args.String(0), args.Error(1)
}

// MockChatter is a mock implementation of analyzer.Chatter
type MockChatter struct {
	mock.Mock
}

func (m *MockChatter) ChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	args := m.Called(ctx, model, prompt)
	return args.String(0), args.Error(1)
}

// MockPublisher is a mock implementation of publisher.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, localPath, filename string) (*publisher.URLs, error) {
	args := m.Called(ctx, localPath, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publisher.URLs), args.Error(1)
}
