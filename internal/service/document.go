package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"docscan/internal/ai"
	"docscan/internal/analysis"
	"docscan/internal/apperr"
	"docscan/internal/drive"
	"docscan/internal/model"
	"docscan/internal/repository"
	"docscan/internal/storage"
)

// ImageNormalizer converts a source file into a single raster image suitable
// for multimodal analysis.
type ImageNormalizer interface {
	ToImage(ctx context.Context, file *model.File) (model.NormalizedImage, error)
}

// DocumentService defines the use cases of the scanned-document pipeline:
// browsing the source folder, analyzing one file, persisting the reviewed
// result, and querying what was stored.
type DocumentService interface {
	// ListFolder returns the files directly under folderID (the configured
	// default folder when empty).
	ListFolder(ctx context.Context, folderID string) ([]model.File, error)

	// GetFileMetadata returns id, name, media type and size for a file.
	GetFileMetadata(ctx context.Context, fileID string) (*model.File, error)

	// Analyze downloads the file, normalizes it to one raster image, runs the
	// AI extraction and parses the response. Nothing is persisted.
	Analyze(ctx context.Context, fileID string) (*model.AnalysisResult, error)

	// Save validates the payload, rejects duplicates by title or file name,
	// reconciles entity mentions and inserts the document with its links.
	Save(ctx context.Context, payload *model.DocumentPayload) (*model.Document, error)

	// QueryDocuments returns stored documents matching the filter.
	QueryDocuments(ctx context.Context, q repository.DocumentQuery) ([]model.Document, error)

	// QueryEntities returns stored entities matching the filter.
	QueryEntities(ctx context.Context, q repository.EntityQuery) ([]model.Entity, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	files      drive.Source
	converter  ImageNormalizer
	analyzer   ai.Analyzer
	reconciler *EntityReconciler
	docs       repository.DocumentRepository
	entities   repository.EntityRepository
	store      storage.Storage
	logger     *slog.Logger
}

// NewDocumentService constructs the pipeline service. store may be nil; image
// offloading is then skipped and the supplied image reference kept as-is.
func NewDocumentService(
	files drive.Source,
	converter ImageNormalizer,
	analyzer ai.Analyzer,
	reconciler *EntityReconciler,
	docs repository.DocumentRepository,
	entities repository.EntityRepository,
	store storage.Storage,
	logger *slog.Logger,
) DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentService{
		files:      files,
		converter:  converter,
		analyzer:   analyzer,
		reconciler: reconciler,
		docs:       docs,
		entities:   entities,
		store:      store,
		logger:     logger,
	}
}

func (s *documentService) ListFolder(ctx context.Context, folderID string) ([]model.File, error) {
	return s.files.ListChildren(ctx, folderID)
}

func (s *documentService) GetFileMetadata(ctx context.Context, fileID string) (*model.File, error) {
	if fileID == "" {
		return nil, apperr.Validation("fileId is required")
	}
	return s.files.GetMetadata(ctx, fileID)
}

// Analyze runs the full extraction pipeline for one file. Any stage failure
// aborts the whole operation; there are no retries.
func (s *documentService) Analyze(ctx context.Context, fileID string) (*model.AnalysisResult, error) {
	if fileID == "" {
		return nil, apperr.Validation("fileId is required")
	}

	file, err := s.files.GetContent(ctx, fileID)
	if err != nil {
		return nil, err
	}
	// The content fetch carries no name; a separate metadata call fills it in.
	meta, err := s.files.GetMetadata(ctx, fileID)
	if err != nil {
		return nil, err
	}
	file.Name = meta.Name

	img, err := s.converter.ToImage(ctx, file)
	if err != nil {
		return nil, err
	}

	raw, err := s.analyzer.AnalyzeImage(ctx, img.DataURL())
	if err != nil {
		return nil, err
	}

	parsed, err := analysis.Parse(raw)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document.analyzed",
		"file_id", fileID,
		"file_name", meta.Name,
		"document_type", parsed.DocumentType,
		"entities", len(parsed.Entities),
	)
	return &model.AnalysisResult{
		Analysis: *parsed,
		Image:    img.DataURL(),
		FileName: meta.Name,
	}, nil
}

func (s *documentService) Save(ctx context.Context, payload *model.DocumentPayload) (*model.Document, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	existing, err := s.docs.FindDuplicate(ctx, payload.Title, payload.FileName)
	if err != nil {
		return nil, apperr.Storage("failed to check for existing documents", err)
	}
	if existing != nil {
		return nil, apperr.Duplicate("Document with same title or filename already exists", existing)
	}

	entities, err := s.reconciler.Reconcile(ctx, payload.Entities)
	if err != nil {
		return nil, err
	}
	entityIDs := make([]string, len(entities))
	for i, e := range entities {
		entityIDs[i] = e.ID
	}

	doc := &model.Document{
		ID:           uuid.NewString(),
		Title:        payload.Title,
		FileName:     payload.FileName,
		Content:      payload.Content,
		DocumentType: payload.DocumentType,
	}
	if ref := s.imageReference(ctx, doc.ID, payload.ImageURL); ref != "" {
		doc.ImageURL = &ref
	}

	stored, err := s.docs.Create(ctx, doc, entityIDs)
	if err != nil {
		return nil, apperr.Storage("failed to save document", err)
	}
	s.logger.Info("document.saved", "id", stored.ID, "title", stored.Title, "entities", len(entityIDs))
	return stored, nil
}

func (s *documentService) QueryDocuments(ctx context.Context, q repository.DocumentQuery) ([]model.Document, error) {
	docs, err := s.docs.Query(ctx, q)
	if err != nil {
		return nil, apperr.Storage("failed to query documents", err)
	}
	return docs, nil
}

func (s *documentService) QueryEntities(ctx context.Context, q repository.EntityQuery) ([]model.Entity, error) {
	items, err := s.entities.Query(ctx, q)
	if err != nil {
		return nil, apperr.Storage("failed to query entities", err)
	}
	return items, nil
}

// imageReference offloads a data-URL image to object storage and returns the
// object key. Plain references, a missing store, or an upload failure leave
// the supplied value untouched.
func (s *documentService) imageReference(ctx context.Context, docID, imageURL string) string {
	if s.store == nil || !strings.HasPrefix(imageURL, "data:") {
		return imageURL
	}

	payload, ok := strings.CutPrefix(imageURL, "data:image/png;base64,")
	if !ok {
		return imageURL
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		s.logger.Warn("document.image_offload_failed", "id", docID, "error", err)
		return imageURL
	}

	key := "documents/images/" + docID + ".png"
	if _, err := s.store.Put(ctx, key, bytes.NewReader(raw), storage.PutObjectOptions{
		Size:        int64(len(raw)),
		ContentType: "image/png",
	}); err != nil {
		s.logger.Warn("document.image_offload_failed", "id", docID, "error", err)
		return imageURL
	}
	return key
}

func validatePayload(p *model.DocumentPayload) error {
	if p == nil {
		return apperr.Validation("Missing required document fields")
	}
	if p.Title == "" || p.FileName == "" || p.Content == "" || p.DocumentType == "" {
		return apperr.Validation("Missing required document fields")
	}
	if !p.DocumentType.Valid() {
		return apperr.Validation("Invalid document type. Must be one of: " + joinDocumentTypes())
	}
	for _, m := range p.Entities {
		if m.Name == "" || !m.Type.Valid() {
			return apperr.Validation("Invalid entity mention")
		}
	}
	return nil
}

func joinDocumentTypes() string {
	parts := make([]string, len(model.DocumentTypes))
	for i, t := range model.DocumentTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
