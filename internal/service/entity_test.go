package service

import (
	"context"
	"testing"
	"time"

	"docscan/internal/apperr"
	"docscan/internal/model"
	repomocks "docscan/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReconcile_DedupesWithinRecord(t *testing.T) {
	repo := new(repomocks.MockEntityRepository)
	r := NewEntityReconciler(repo, nil)

	repo.On("FindByNameAndType", mock.Anything, "John Smith", model.EntityPerson).
		Return(&model.Entity{ID: "ent-1", Name: "John Smith", Type: model.EntityPerson}, nil).Once()

	// Same (name, type) pair in different casing resolves to one lookup.
	entities, err := r.Reconcile(context.Background(), []model.EntityMention{
		{Name: "John Smith", Type: model.EntityPerson},
		{Name: "JOHN SMITH", Type: model.EntityPerson},
	})
	require.NoError(t, err)

	require.Len(t, entities, 1)
	assert.Equal(t, "ent-1", entities[0].ID)
	repo.AssertExpectations(t)
}

func TestReconcile_CreatesMissingEntity(t *testing.T) {
	repo := new(repomocks.MockEntityRepository)
	r := NewEntityReconciler(repo, nil)

	repo.On("FindByNameAndType", mock.Anything, "Verdun", model.EntityLocation).
		Return(nil, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Entity) bool {
		return e.ID != "" && e.Name == "Verdun" && e.Type == model.EntityLocation && e.Date == nil
	})).Return(&model.Entity{ID: "ent-2", Name: "Verdun", Type: model.EntityLocation}, nil).Once()

	entities, err := r.Reconcile(context.Background(), []model.EntityMention{
		{Name: "Verdun", Type: model.EntityLocation},
	})
	require.NoError(t, err)

	require.Len(t, entities, 1)
	assert.Equal(t, "ent-2", entities[0].ID)
	repo.AssertExpectations(t)
}

func TestReconcile_ReturnsSameEntityAcrossCalls(t *testing.T) {
	repo := new(repomocks.MockEntityRepository)
	r := NewEntityReconciler(repo, nil)

	stored := &model.Entity{ID: "ent-1", Name: "John Smith", Type: model.EntityPerson}
	repo.On("FindByNameAndType", mock.Anything, "John Smith", model.EntityPerson).
		Return(stored, nil).Twice()

	first, err := r.Reconcile(context.Background(), []model.EntityMention{
		{Name: "John Smith", Type: model.EntityPerson},
	})
	require.NoError(t, err)
	second, err := r.Reconcile(context.Background(), []model.EntityMention{
		{Name: "John Smith", Type: model.EntityPerson},
	})
	require.NoError(t, err)

	assert.Equal(t, first[0].ID, second[0].ID)
	repo.AssertExpectations(t)
}

func TestReconcile_CanonicalizesDateMentions(t *testing.T) {
	repo := new(repomocks.MockEntityRepository)
	r := NewEntityReconciler(repo, nil)

	// The raw name stays the identity key; the canonical instant only fills
	// the date column.
	want := time.Date(1920, 5, 1, 0, 0, 0, 0, time.UTC)
	repo.On("FindByNameAndType", mock.Anything, "1920-05-01", model.EntityDate).
		Return(nil, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Entity) bool {
		return e.Name == "1920-05-01" && e.Date != nil && e.Date.Equal(want)
	})).Return(&model.Entity{ID: "ent-3", Name: "1920-05-01", Type: model.EntityDate, Date: &want}, nil).Once()

	entities, err := r.Reconcile(context.Background(), []model.EntityMention{
		{Name: "1920-05-01", Type: model.EntityDate},
	})
	require.NoError(t, err)

	require.Len(t, entities, 1)
	require.NotNil(t, entities[0].Date)
	repo.AssertExpectations(t)
}

func TestReconcile_DateIdentityIgnoresOptionalDateField(t *testing.T) {
	repo := new(repomocks.MockEntityRepository)
	r := NewEntityReconciler(repo, nil)

	canonical := "1920-05-01T00:00:00.000Z"
	want := time.Date(1920, 5, 1, 0, 0, 0, 0, time.UTC)
	stored := &model.Entity{ID: "ent-4", Name: "1920-05-01", Type: model.EntityDate, Date: &want}

	repo.On("FindByNameAndType", mock.Anything, "1920-05-01", model.EntityDate).
		Return(nil, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Entity) bool {
		return e.Name == "1920-05-01"
	})).Return(stored, nil).Once()
	repo.On("FindByNameAndType", mock.Anything, "1920-05-01", model.EntityDate).
		Return(stored, nil).Once()

	// Saved once without the optional date field and once with it, the same
	// mention resolves to one entity.
	first, err := r.Reconcile(context.Background(), []model.EntityMention{
		{Name: "1920-05-01", Type: model.EntityDate},
	})
	require.NoError(t, err)
	second, err := r.Reconcile(context.Background(), []model.EntityMention{
		{Name: "1920-05-01", Type: model.EntityDate, Date: &canonical},
	})
	require.NoError(t, err)

	assert.Equal(t, first[0].ID, second[0].ID)
	repo.AssertNumberOfCalls(t, "Create", 1)
	repo.AssertExpectations(t)
}

func TestReconcile_UnparseableDate(t *testing.T) {
	repo := new(repomocks.MockEntityRepository)
	r := NewEntityReconciler(repo, nil)

	_, err := r.Reconcile(context.Background(), []model.EntityMention{
		{Name: "sometime in spring", Type: model.EntityDate},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	repo.AssertNotCalled(t, "FindByNameAndType")
}

func TestReconcile_LookupFailureIsStorageKind(t *testing.T) {
	repo := new(repomocks.MockEntityRepository)
	r := NewEntityReconciler(repo, nil)

	repo.On("FindByNameAndType", mock.Anything, "Anna", model.EntityPerson).
		Return(nil, assert.AnError).Once()

	_, err := r.Reconcile(context.Background(), []model.EntityMention{
		{Name: "Anna", Type: model.EntityPerson},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
}

func TestReconcile_PreservesMentionOrder(t *testing.T) {
	repo := new(repomocks.MockEntityRepository)
	r := NewEntityReconciler(repo, nil)

	names := []string{"Anna", "Berlin", "Charlie"}
	for i, name := range names {
		typ := model.EntityPerson
		if i == 1 {
			typ = model.EntityLocation
		}
		repo.On("FindByNameAndType", mock.Anything, name, typ).
			Return(&model.Entity{ID: name, Name: name, Type: typ}, nil).Once()
	}

	entities, err := r.Reconcile(context.Background(), []model.EntityMention{
		{Name: "Anna", Type: model.EntityPerson},
		{Name: "Berlin", Type: model.EntityLocation},
		{Name: "Charlie", Type: model.EntityPerson},
	})
	require.NoError(t, err)

	require.Len(t, entities, 3)
	for i, name := range names {
		assert.Equal(t, name, entities[i].Name)
	}
}
