package repository

import (
	"context"

	"docscan/internal/model"
)

// EntityQuery holds the optional filters for the entity listing. Type and
// EntityType are both accepted by the HTTP surface; EntityType wins when
// both are set.
type EntityQuery struct {
	ID         string
	Type       model.EntityType
	Keyword    string
	EntityType model.EntityType
	Date       string
}

// EntityRepository defines data access for named entities.
type EntityRepository interface {
	// FindByNameAndType returns the entity matching the identity key, or nil
	// when none exists. The name match is case-insensitive.
	FindByNameAndType(ctx context.Context, name string, typ model.EntityType) (*model.Entity, error)

	// Create inserts a new entity and returns the stored record.
	Create(ctx context.Context, entity *model.Entity) (*model.Entity, error)

	// Query returns entities matching the filter. An empty result is
	// returned as an empty slice, not an error.
	Query(ctx context.Context, q EntityQuery) ([]model.Entity, error)
}
