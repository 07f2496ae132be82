package mocks

import (
	"context"

	"docscan/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockImageNormalizer struct {
	mock.Mock
}

func (m *MockImageNormalizer) ToImage(ctx context.Context, file *model.File) (model.NormalizedImage, error) {
	args := m.Called(ctx, file)
	return args.Get(0).(model.NormalizedImage), args.Error(1)
}
