package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) AnalyzeImage(ctx context.Context, imageDataURL string) (string, error) {
	args := m.Called(ctx, imageDataURL)
	return args.String(0), args.Error(1)
}
