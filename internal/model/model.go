package model

// Package model contains domain models/data structures.
// Pure data types shared across layers; no business logic here.

// DocumentType is the closed classification enumeration for analyzed documents.
type DocumentType string

const (
	DocTypeLetter     DocumentType = "letter"
	DocTypeReport     DocumentType = "report"
	DocTypePhoto      DocumentType = "photo"
	DocTypeNewspaper  DocumentType = "newspaper"
	DocTypeList       DocumentType = "list"
	DocTypeDiaryEntry DocumentType = "diary_entry"
	DocTypeBook       DocumentType = "book"
	DocTypeMap        DocumentType = "map"
	DocTypeBiography  DocumentType = "biography"
)

// DocumentTypes lists every valid document classification, in prompt order.
var DocumentTypes = []DocumentType{
	DocTypeLetter,
	DocTypeReport,
	DocTypePhoto,
	DocTypeNewspaper,
	DocTypeList,
	DocTypeDiaryEntry,
	DocTypeBook,
	DocTypeMap,
	DocTypeBiography,
}

// Valid reports whether t is a member of the closed enumeration.
func (t DocumentType) Valid() bool {
	for _, dt := range DocumentTypes {
		if t == dt {
			return true
		}
	}
	return false
}

// EntityType is the closed enumeration of entity kinds.
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityLocation     EntityType = "location"
	EntityOrganization EntityType = "organization"
	EntityEvent        EntityType = "event"
	EntityDate         EntityType = "date"
	EntityUnit         EntityType = "unit"
)

// EntityTypes lists every valid entity kind.
var EntityTypes = []EntityType{
	EntityPerson,
	EntityLocation,
	EntityOrganization,
	EntityEvent,
	EntityDate,
	EntityUnit,
}

// Valid reports whether t is a member of the closed enumeration.
func (t EntityType) Valid() bool {
	for _, et := range EntityTypes {
		if t == et {
			return true
		}
	}
	return false
}
