package repository

import (
	"context"

	"docscan/internal/model"
)

// DocumentQuery holds the optional filters for the document listing.
// EntityID takes precedence: when set, the other filters are ignored and
// documents are matched by relation to that entity.
type DocumentQuery struct {
	ID           string
	Keyword      string
	DocumentType model.DocumentType
	EntityID     string
}

// DocumentRepository defines data access for analyzed documents using SQL
// queries only. No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document row linked to the given entity ids and
	// returns the stored record joined to its entities.
	Create(ctx context.Context, doc *model.Document, entityIDs []string) (*model.Document, error)

	// FindDuplicate returns a document whose title or file name matches the
	// given values case-insensitively, or nil when none exists.
	FindDuplicate(ctx context.Context, title, fileName string) (*model.Document, error)

	// Query returns documents matching the filter, each joined to its
	// entities. An empty result is returned as an empty slice, not an error.
	Query(ctx context.Context, q DocumentQuery) ([]model.Document, error)
}
