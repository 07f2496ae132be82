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

// EntityPostgres is a PostgreSQL implementation of repository.EntityRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type EntityPostgres struct {
	db *sql.DB
}

// NewEntityPostgres creates a new EntityPostgres repository.
func NewEntityPostgres(db *sql.DB) *EntityPostgres {
	return &EntityPostgres{db: db}
}

var _ repository.EntityRepository = (*EntityPostgres)(nil)

// FindByNameAndType looks an entity up by its identity key. The name match
// is case-insensitive; nil is returned when no row exists.
func (r *EntityPostgres) FindByNameAndType(ctx context.Context, name string, typ model.EntityType) (*model.Entity, error) {
	const q = `
		SELECT id, name, type, date
		FROM entities
		WHERE lower(name) = lower($1) AND type = $2
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, q, name, typ)
	e, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new entity row and returns the stored record.
func (r *EntityPostgres) Create(ctx context.Context, entity *model.Entity) (*model.Entity, error) {
	const q = `
		INSERT INTO entities (id, name, type, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, type, date
	`
	var date sql.NullTime
	if entity.Date != nil {
		date = sql.NullTime{Time: *entity.Date, Valid: true}
	}
	row := r.db.QueryRowContext(ctx, q, entity.ID, entity.Name, entity.Type, date)
	return scanEntity(row)
}

// Query returns entities matching the filter.
func (r *EntityPostgres) Query(ctx context.Context, q repository.EntityQuery) ([]model.Entity, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if q.ID != "" {
		add("id = $%d", q.ID)
	}
	typ := q.Type
	if q.EntityType != "" {
		typ = q.EntityType
	}
	if typ != "" {
		add("type = $%d", typ)
	}
	if q.Keyword != "" {
		add("name LIKE '%%' || $%d || '%%'", q.Keyword)
	}
	if q.Date != "" {
		add("date = $%d", q.Date)
	}

	query := `SELECT id, name, type, date FROM entities`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Entity, 0)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*model.Entity, error) {
	var e model.Entity
	var date sql.NullTime
	if err := row.Scan(&e.ID, &e.Name, &e.Type, &date); err != nil {
		return nil, err
	}
	if date.Valid {
		e.Date = &date.Time
	}
	return &e, nil
}
