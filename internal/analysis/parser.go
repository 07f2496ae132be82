// Package analysis turns free-form AI completion text into a validated
// structured record.
package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/araddon/dateparse"

	"docscan/internal/apperr"
	"docscan/internal/model"
)

// canonicalInstant matches the millisecond-precision UTC form the rest of
// the system stores for date entities, e.g. 1920-05-01T00:00:00.000Z.
const canonicalInstant = "2006-01-02T15:04:05.000Z07:00"

// wire mirrors the JSON object the extraction prompt asks the model for.
type wire struct {
	DocumentType string `json:"document_type"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Entities     []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"entities"`
}

// Parse extracts the first JSON object embedded in text and maps it onto a
// ParsedAnalysis. Date-typed entity mentions are canonicalized to an
// ISO-8601 UTC instant; a date mention that cannot be parsed fails the whole
// operation. All failures are parsing-kind errors, never double-wrapped.
func Parse(text string) (*model.ParsedAnalysis, error) {
	raw, ok := extractJSONObject(text)
	if !ok {
		return nil, apperr.Parsing("no valid JSON object found in text", nil)
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, apperr.Parsing("no valid JSON object found in text", err)
	}
	if err := recordSchema.Validate(decoded); err != nil {
		return nil, apperr.Parsing("analysis does not match expected structure", err)
	}

	var w wire
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, apperr.Parsing("failed to parse analysis", err)
	}

	mentions := make([]model.EntityMention, 0, len(w.Entities))
	for _, e := range w.Entities {
		mention := model.EntityMention{Name: e.Name, Type: model.EntityType(e.Type)}
		if mention.Type == model.EntityDate {
			iso, err := CanonicalDate(e.Name)
			if err != nil {
				return nil, apperr.Parsing(
					fmt.Sprintf("unparseable date entity %q", e.Name), err)
			}
			mention.Date = &iso
		}
		mentions = append(mentions, mention)
	}

	return &model.ParsedAnalysis{
		DocumentType: model.DocumentType(w.DocumentType),
		Title:        w.Title,
		Content:      w.Content,
		Entities:     mentions,
	}, nil
}

// CanonicalDate parses a free-form calendar date and renders it as an
// ISO-8601 instant at UTC.
func CanonicalDate(name string) (string, error) {
	t, err := dateparse.ParseAny(name)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(canonicalInstant), nil
}

// extractJSONObject scans for the first '{' and returns the substring up to
// its balancing '}'. Depth tracking is string-aware so braces inside JSON
// string values, or in prose after the object, do not break extraction.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
