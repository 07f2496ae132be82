package service

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	aimocks "docscan/internal/ai/mocks"
	"docscan/internal/apperr"
	drivemocks "docscan/internal/drive/mocks"
	"docscan/internal/model"
	"docscan/internal/repository"
	repomocks "docscan/internal/repository/mocks"
	svcmocks "docscan/internal/service/mocks"
	"docscan/internal/storage"
	storagemocks "docscan/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pipelineMocks struct {
	files     *drivemocks.MockSource
	converter *svcmocks.MockImageNormalizer
	analyzer  *aimocks.MockAnalyzer
	docs      *repomocks.MockDocumentRepository
	entities  *repomocks.MockEntityRepository
}

func newTestService(t *testing.T) (DocumentService, *pipelineMocks) {
	t.Helper()
	m := &pipelineMocks{
		files:     new(drivemocks.MockSource),
		converter: new(svcmocks.MockImageNormalizer),
		analyzer:  new(aimocks.MockAnalyzer),
		docs:      new(repomocks.MockDocumentRepository),
		entities:  new(repomocks.MockEntityRepository),
	}
	svc := NewDocumentService(
		m.files,
		m.converter,
		m.analyzer,
		NewEntityReconciler(m.entities, nil),
		m.docs,
		m.entities,
		nil,
		nil,
	)
	return svc, m
}

const analysisResponse = `Here is the result: {"title":"Letter from 1920","content":"A short letter.","document_type":"letter","entities":[{"name":"John Smith","type":"person"},{"name":"1920-05-01","type":"date"}]} Thanks.`

func TestDocumentService_Analyze(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	img := model.NewNormalizedImage([]byte("pngbytes"), "image/png")
	m.files.On("GetContent", mock.Anything, "f1").
		Return(&model.File{ID: "f1", MimeType: "image/png", Data: []byte("pngbytes")}, nil).Once()
	m.files.On("GetMetadata", mock.Anything, "f1").
		Return(&model.File{ID: "f1", Name: "letter.png", MimeType: "image/png"}, nil).Once()
	m.converter.On("ToImage", mock.Anything, mock.MatchedBy(func(f *model.File) bool {
		return f.ID == "f1" && f.Name == "letter.png"
	})).Return(img, nil).Once()
	m.analyzer.On("AnalyzeImage", mock.Anything, img.DataURL()).
		Return(analysisResponse, nil).Once()

	result, err := svc.Analyze(ctx, "f1")
	require.NoError(t, err)

	assert.Equal(t, "letter.png", result.FileName)
	assert.Equal(t, img.DataURL(), result.Image)
	assert.Equal(t, model.DocTypeLetter, result.Analysis.DocumentType)
	assert.Equal(t, "Letter from 1920", result.Analysis.Title)
	require.Len(t, result.Analysis.Entities, 2)
	dateMention := result.Analysis.Entities[1]
	assert.Equal(t, model.EntityDate, dateMention.Type)
	require.NotNil(t, dateMention.Date)
	assert.Equal(t, "1920-05-01T00:00:00.000Z", *dateMention.Date)

	m.files.AssertExpectations(t)
	m.converter.AssertExpectations(t)
	m.analyzer.AssertExpectations(t)
}

func TestDocumentService_AnalyzeMissingFile(t *testing.T) {
	svc, m := newTestService(t)

	m.files.On("GetContent", mock.Anything, "missing").
		Return(nil, apperr.NotFound("file not found")).Once()

	_, err := svc.Analyze(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	m.converter.AssertNotCalled(t, "ToImage")
}

func TestDocumentService_AnalyzeEmptyFileID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Analyze(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDocumentService_AnalyzeParsingFailure(t *testing.T) {
	svc, m := newTestService(t)

	img := model.NewNormalizedImage([]byte("x"), "image/png")
	m.files.On("GetContent", mock.Anything, "f1").
		Return(&model.File{ID: "f1", MimeType: "image/png", Data: []byte("x")}, nil).Once()
	m.files.On("GetMetadata", mock.Anything, "f1").
		Return(&model.File{ID: "f1", Name: "a.png"}, nil).Once()
	m.converter.On("ToImage", mock.Anything, mock.Anything).Return(img, nil).Once()
	m.analyzer.On("AnalyzeImage", mock.Anything, mock.Anything).
		Return("no json here", nil).Once()

	_, err := svc.Analyze(context.Background(), "f1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindParsing, apperr.KindOf(err))
}

func validPayload() *model.DocumentPayload {
	return &model.DocumentPayload{
		Title:        "Letter from 1920",
		FileName:     "letter.png",
		Content:      "A short letter.",
		DocumentType: model.DocTypeLetter,
		Entities: []model.EntityMention{
			{Name: "John Smith", Type: model.EntityPerson},
		},
	}
}

func TestDocumentService_Save(t *testing.T) {
	svc, m := newTestService(t)
	payload := validPayload()

	m.docs.On("FindDuplicate", mock.Anything, payload.Title, payload.FileName).
		Return(nil, nil).Once()
	m.entities.On("FindByNameAndType", mock.Anything, "John Smith", model.EntityPerson).
		Return(&model.Entity{ID: "ent-1", Name: "John Smith", Type: model.EntityPerson}, nil).Once()
	m.docs.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
		return d.Title == payload.Title && d.ID != ""
	}), []string{"ent-1"}).
		Return(&model.Document{ID: "doc-1", Title: payload.Title}, nil).Once()

	stored, err := svc.Save(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", stored.ID)

	m.docs.AssertExpectations(t)
	m.entities.AssertExpectations(t)
}

func TestDocumentService_SaveDuplicate(t *testing.T) {
	svc, m := newTestService(t)
	payload := validPayload()

	existing := &model.Document{ID: "doc-1", Title: payload.Title}
	m.docs.On("FindDuplicate", mock.Anything, payload.Title, payload.FileName).
		Return(existing, nil).Once()

	_, err := svc.Save(context.Background(), payload)
	require.Error(t, err)

	ae, ok := apperr.AsError(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindDuplicate, ae.Kind)
	assert.Equal(t, existing, ae.Existing)
	m.docs.AssertNotCalled(t, "Create")
}

func TestDocumentService_SaveValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := map[string]*model.DocumentPayload{
		"nil payload":   nil,
		"missing title": {FileName: "a.png", Content: "c", DocumentType: model.DocTypeLetter},
		"missing file name": {
			Title: "t", Content: "c", DocumentType: model.DocTypeLetter,
		},
		"bad document type": {
			Title: "t", FileName: "a.png", Content: "c", DocumentType: "postcard",
		},
		"bad entity type": {
			Title: "t", FileName: "a.png", Content: "c", DocumentType: model.DocTypeLetter,
			Entities: []model.EntityMention{{Name: "x", Type: "animal"}},
		},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Save(context.Background(), payload)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestDocumentService_SaveOffloadsDataURLImage(t *testing.T) {
	m := &pipelineMocks{
		files:    new(drivemocks.MockSource),
		docs:     new(repomocks.MockDocumentRepository),
		entities: new(repomocks.MockEntityRepository),
	}
	store := new(storagemocks.MockStorage)
	svc := NewDocumentService(
		m.files, nil, nil,
		NewEntityReconciler(m.entities, nil),
		m.docs, m.entities, store, nil,
	)

	payload := validPayload()
	payload.Entities = nil
	payload.ImageURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("pngbytes"))

	m.docs.On("FindDuplicate", mock.Anything, payload.Title, payload.FileName).
		Return(nil, nil).Once()
	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "documents/images/") && strings.HasSuffix(key, ".png")
	}), mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, nil).Once()
	m.docs.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
		return d.ImageURL != nil && strings.HasPrefix(*d.ImageURL, "documents/images/")
	}), []string{}).
		Return(&model.Document{ID: "doc-1"}, nil).Once()

	_, err := svc.Save(context.Background(), payload)
	require.NoError(t, err)
	store.AssertExpectations(t)
	m.docs.AssertExpectations(t)
}

func TestDocumentService_QueryDocuments(t *testing.T) {
	svc, m := newTestService(t)

	q := repository.DocumentQuery{DocumentType: model.DocTypeMap}
	m.docs.On("Query", mock.Anything, q).
		Return([]model.Document{{ID: "doc-1"}}, nil).Once()

	docs, err := svc.QueryDocuments(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentService_QueryEntities(t *testing.T) {
	svc, m := newTestService(t)

	q := repository.EntityQuery{Type: model.EntityPerson}
	m.entities.On("Query", mock.Anything, q).
		Return([]model.Entity{{ID: "ent-1"}}, nil).Once()

	items, err := svc.QueryEntities(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
