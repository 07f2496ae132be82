package model

import "time"

// EntityMention is an entity reference as extracted from raw analysis text,
// not yet reconciled against storage. Date is populated only for date-typed
// mentions and holds the canonical ISO-8601 instant derived from Name.
type EntityMention struct {
	Name string     `json:"name"`
	Type EntityType `json:"type"`
	Date *string    `json:"date,omitempty"`
}

// ParsedAnalysis is the validated structured record extracted from the raw
// AI response.
type ParsedAnalysis struct {
	DocumentType DocumentType    `json:"documentType"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Entities     []EntityMention `json:"entities"`
}

// AnalysisResult is what the analyze path returns to the caller: the parsed
// record, the normalized image as a data URL, and the original file name.
// Nothing is persisted at this point.
type AnalysisResult struct {
	Analysis ParsedAnalysis `json:"analysis"`
	Image    string         `json:"image"`
	FileName string         `json:"fileName"`
}

// Entity is a durable named entity. Identity is the (name, type) pair;
// entities are created on first sight and never updated by this pipeline.
type Entity struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type EntityType `json:"type"`
	Date *time.Time `json:"date,omitempty"`
}

// Document is a durable analyzed document joined to its entities.
type Document struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	FileName     string       `json:"fileName"`
	Content      string       `json:"content"`
	ImageURL     *string      `json:"imageUrl,omitempty"`
	DocumentType DocumentType `json:"documentType"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	Entities     []Entity     `json:"entities"`
}

// DocumentPayload is the save-path request body: typically the analyze-path
// output after optional user edits.
type DocumentPayload struct {
	Title        string          `json:"title"`
	FileName     string          `json:"fileName"`
	Content      string          `json:"content"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	DocumentType DocumentType    `json:"documentType"`
	Entities     []EntityMention `json:"entities"`
}
