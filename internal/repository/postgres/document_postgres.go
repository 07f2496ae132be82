package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"docscan/internal/model"
	"docscan/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, title, file_name, content, image_url, document_type, created_at, updated_at`

// Create inserts the document row and its entity links in one transaction
// and returns the stored record joined to its entities.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document, entityIDs []string) (*model.Document, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const qDoc = `
		INSERT INTO documents (id, title, file_name, content, image_url, document_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + documentColumns
	row := tx.QueryRowContext(ctx, qDoc,
		doc.ID,
		doc.Title,
		doc.FileName,
		doc.Content,
		doc.ImageURL,
		doc.DocumentType,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, err
	}

	const qLink = `
		INSERT INTO document_entities (document_id, entity_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	for _, entityID := range entityIDs {
		if _, err := tx.ExecContext(ctx, qLink, out.ID, entityID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	entities, err := r.entitiesFor(ctx, out.ID)
	if err != nil {
		return nil, err
	}
	out.Entities = entities
	return out, nil
}

// FindDuplicate returns a document whose title or file name matches the given
// values case-insensitively, or nil when none exists.
func (r *DocumentPostgres) FindDuplicate(ctx context.Context, title, fileName string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE lower(title) = lower($1) OR lower(file_name) = lower($2)
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, q, title, fileName)
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.Entities, err = r.entitiesFor(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Query returns documents matching the filter, each joined to its entities.
// An entity filter takes precedence over the other filters.
func (r *DocumentPostgres) Query(ctx context.Context, q repository.DocumentQuery) ([]model.Document, error) {
	var (
		query string
		args  []any
	)
	if q.EntityID != "" {
		query = `
			SELECT d.id, d.title, d.file_name, d.content, d.image_url, d.document_type, d.created_at, d.updated_at
			FROM documents d
			JOIN document_entities de ON de.document_id = d.id
			WHERE de.entity_id = $1
			ORDER BY d.created_at DESC, d.id DESC
		`
		args = append(args, q.EntityID)
	} else {
		var conds []string
		add := func(cond string, arg any) {
			args = append(args, arg)
			conds = append(conds, fmt.Sprintf(cond, len(args)))
		}
		if q.ID != "" {
			add("id = $%d", q.ID)
		}
		if q.DocumentType != "" {
			add("document_type = $%d", q.DocumentType)
		}
		if q.Keyword != "" {
			add("content LIKE '%%' || $%d || '%%'", q.Keyword)
		}
		query = `SELECT ` + documentColumns + ` FROM documents`
		if len(conds) > 0 {
			query += " WHERE " + strings.Join(conds, " AND ")
		}
		query += " ORDER BY created_at DESC, id DESC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		entities, err := r.entitiesFor(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Entities = entities
	}
	return items, nil
}

// entitiesFor loads the entities linked to a document.
func (r *DocumentPostgres) entitiesFor(ctx context.Context, documentID string) ([]model.Entity, error) {
	const q = `
		SELECT e.id, e.name, e.type, e.date
		FROM entities e
		JOIN document_entities de ON de.entity_id = e.id
		WHERE de.document_id = $1
		ORDER BY e.name
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entities := make([]model.Entity, 0)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entities, nil
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var d model.Document
	var imageURL sql.NullString
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&d.FileName,
		&d.Content,
		&imageURL,
		&d.DocumentType,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if imageURL.Valid {
		d.ImageURL = &imageURL.String
	}
	return &d, nil
}
