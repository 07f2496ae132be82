package drive

import (
	"context"

	"docscan/internal/model"
)

// Package drive contains the read-only cloud source the documents are
// browsed from. The service only consumes the three operations below; the
// concrete client is a thin REST wrapper.

// Source is the cloud file source consumed by the analysis pipeline.
type Source interface {
	// ListChildren returns the files directly under the given folder.
	// An empty folderID falls back to the configured default folder.
	ListChildren(ctx context.Context, folderID string) ([]model.File, error)
	// GetMetadata returns id, name, mimeType and size for a file.
	GetMetadata(ctx context.Context, fileID string) (*model.File, error)
	// GetContent returns the raw bytes of a file. The name field is not
	// populated by a content fetch; callers needing it issue GetMetadata.
	GetContent(ctx context.Context, fileID string) (*model.File, error)
}
