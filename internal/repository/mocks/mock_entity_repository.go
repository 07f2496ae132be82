package mocks

import (
	"context"

	"docscan/internal/model"
	"docscan/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockEntityRepository struct {
	mock.Mock
}

func (m *MockEntityRepository) FindByNameAndType(ctx context.Context, name string, typ model.EntityType) (*model.Entity, error) {
	args := m.Called(ctx, name, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entity), args.Error(1)
}

func (m *MockEntityRepository) Create(ctx context.Context, entity *model.Entity) (*model.Entity, error) {
	args := m.Called(ctx, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entity), args.Error(1)
}

func (m *MockEntityRepository) Query(ctx context.Context, q repository.EntityQuery) ([]model.Entity, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Entity), args.Error(1)
}
