package analysis

import (
	"encoding/json"
	"testing"

	"docscan/internal/apperr"
	"docscan/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SampleResponse(t *testing.T) {
	text := `Here is the result: {"title":"Letter from 1920","content":"A short letter.","document_type":"letter","entities":[{"name":"John Smith","type":"person"},{"name":"1920-05-01","type":"date"}]} Thanks.`

	got, err := Parse(text)
	require.NoError(t, err)

	assert.Equal(t, model.DocTypeLetter, got.DocumentType)
	assert.Equal(t, "Letter from 1920", got.Title)
	assert.Equal(t, "A short letter.", got.Content)
	require.Len(t, got.Entities, 2)

	assert.Equal(t, "John Smith", got.Entities[0].Name)
	assert.Equal(t, model.EntityPerson, got.Entities[0].Type)
	assert.Nil(t, got.Entities[0].Date)

	assert.Equal(t, model.EntityDate, got.Entities[1].Type)
	require.NotNil(t, got.Entities[1].Date)
	assert.Equal(t, "1920-05-01T00:00:00.000Z", *got.Entities[1].Date)
}

func TestParse_RoundTrip(t *testing.T) {
	record := map[string]any{
		"title":         "Expedition Report",
		"content":       "Notes from the northern survey.",
		"document_type": "report",
		"entities": []map[string]string{
			{"name": "Royal Society", "type": "organization"},
			{"name": "Greenland", "type": "location"},
		},
	}
	serialized, err := json.Marshal(record)
	require.NoError(t, err)

	got, err := Parse(string(serialized))
	require.NoError(t, err)
	assert.Equal(t, model.DocTypeReport, got.DocumentType)
	assert.Equal(t, "Expedition Report", got.Title)
	require.Len(t, got.Entities, 2)
	assert.Equal(t, model.EntityOrganization, got.Entities[0].Type)
	assert.Equal(t, "Greenland", got.Entities[1].Name)
}

func TestParse_BracesInSurroundingText(t *testing.T) {
	// Prose after the object contains stray braces; depth-tracked
	// extraction must stop at the balancing brace of the object itself.
	text := `{"title":"A {quoted} title","content":"c","document_type":"photo","entities":[]} trailing } noise {`

	got, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "A {quoted} title", got.Title)
	assert.Empty(t, got.Entities)
}

func TestParse_NoJSONObject(t *testing.T) {
	_, err := Parse("the model returned prose with no object at all")
	require.Error(t, err)
	assert.Equal(t, apperr.KindParsing, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "no valid JSON object found")
}

func TestParse_UnbalancedObject(t *testing.T) {
	_, err := Parse(`prefix {"title":"x","content":"y"`)
	require.Error(t, err)
	assert.Equal(t, apperr.KindParsing, apperr.KindOf(err))
}

func TestParse_MissingEntities(t *testing.T) {
	_, err := Parse(`{"title":"x","content":"y","document_type":"letter"}`)
	require.Error(t, err)
	assert.Equal(t, apperr.KindParsing, apperr.KindOf(err))
}

func TestParse_InvalidDocumentType(t *testing.T) {
	_, err := Parse(`{"title":"x","content":"y","document_type":"postcard","entities":[]}`)
	require.Error(t, err)
	assert.Equal(t, apperr.KindParsing, apperr.KindOf(err))
}

func TestParse_EmptyTitle(t *testing.T) {
	_, err := Parse(`{"title":"","content":"y","document_type":"letter","entities":[]}`)
	require.Error(t, err)
	assert.Equal(t, apperr.KindParsing, apperr.KindOf(err))
}

func TestParse_UnparseableDateFailsParse(t *testing.T) {
	_, err := Parse(`{"title":"x","content":"y","document_type":"letter","entities":[{"name":"not a date","type":"date"}]}`)
	require.Error(t, err)
	assert.Equal(t, apperr.KindParsing, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "unparseable date entity")
}

func TestParse_NoDoubleWrap(t *testing.T) {
	_, err := Parse("no object here")
	require.Error(t, err)

	ae, ok := apperr.AsError(err)
	require.True(t, ok)
	assert.Nil(t, ae.Cause)
}

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1920-05-01", "1920-05-01T00:00:00.000Z"},
		{"May 1, 1920", "1920-05-01T00:00:00.000Z"},
		{"1920-05-01T12:30:00Z", "1920-05-01T12:30:00.000Z"},
	}
	for _, tt := range tests {
		got, err := CanonicalDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := CanonicalDate("definitely not a date")
	assert.Error(t, err)
}
