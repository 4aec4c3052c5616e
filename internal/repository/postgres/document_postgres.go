package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"docprocessor/internal/model"
	"docprocessor/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository over dps_dbo.documents.
// Every read applies the visibility scope it is given; soft deletes never remove rows.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

var (
	selectColumns = strings.Join(columnNames(readable), ", ")

	insertSQL = func() string {
		cols := columnNames(insertable)
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			documentsTableQ, strings.Join(cols, ", "), placeholders(1, len(cols)), selectColumns)
	}()

	// Update binds $1 to id and the mutable columns from $2 on.
	updateSQL = func() string {
		cols := columnNames(updatable)
		sets := make([]string, len(cols))
		for i, c := range cols {
			sets[i] = fmt.Sprintf("%s = $%d", c, i+2)
		}
		return fmt.Sprintf("UPDATE %s SET %s%s RETURNING %s",
			documentsTableQ, strings.Join(sets, ", "),
			where(colID+" = $1", visibility(repository.ScopeActive)), selectColumns)
	}()
)

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	row := r.db.QueryRowContext(ctx, insertSQL, encodeArgs(doc, insertable)...)
	out, err := scanDocument(row)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single document by its ID within scope.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64, scope repository.Scope) (*model.Document, error) {
	q := "SELECT " + selectColumns + " FROM " + documentsTableQ + where(colID+" = $1", visibility(scope))
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// List returns documents using LIMIT/OFFSET pagination and a total count, newest first.
func (r *DocumentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	filter := where(visibility(pq.Scope))

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+documentsTableQ+filter).Scan(&total); err != nil {
		return nil, err
	}

	q := "SELECT " + selectColumns + " FROM " + documentsTableQ + filter + " ORDER BY id DESC LIMIT $1 OFFSET $2"
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
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

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Update rewrites the mutable columns of a visible document. The deleted flag is left untouched;
// concurrent writers are not serialized, the last statement wins.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := append([]any{doc.ID}, encodeArgs(doc, updatable)...)
	out, err := scanDocument(r.db.QueryRowContext(ctx, updateSQL, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// SoftDelete sets isdeleted = 1. The row is matched regardless of its current flag so repeated
// deletes succeed; only an unknown id yields ErrNotFound.
func (r *DocumentPostgres) SoftDelete(ctx context.Context, id int64) error {
	return r.setDeleted(ctx, id, true)
}

// Restore sets isdeleted = 0 with the same matching rules as SoftDelete.
func (r *DocumentPostgres) Restore(ctx context.Context, id int64) error {
	return r.setDeleted(ctx, id, false)
}

func (r *DocumentPostgres) setDeleted(ctx context.Context, id int64, deleted bool) error {
	q := "UPDATE " + documentsTableQ + " SET " + colIsDeleted + " = $2" +
		where(colID+" = $1", visibility(repository.ScopeWithDeleted))
	res, err := r.db.ExecContext(ctx, q, id, encodeFlag(deleted))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
