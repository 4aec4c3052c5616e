package repository

import (
	"context"
	"errors"

	"docprocessor/internal/model"
)

// ErrNotFound is returned when no row matches the id within the requested scope.
var ErrNotFound = errors.New("document not found")

// Scope selects which rows a read considers. The zero value hides soft-deleted rows.
type Scope int

const (
	// ScopeActive restricts reads to rows that are not soft-deleted.
	ScopeActive Scope = iota
	// ScopeWithDeleted includes soft-deleted rows.
	ScopeWithDeleted
)

// ScopeFor maps an include-deleted flag to a Scope.
func ScopeFor(includeDeleted bool) Scope {
	if includeDeleted {
		return ScopeWithDeleted
	}
	return ScopeActive
}

// DocumentRepository defines data access for documents.
// Implementations hold persistence only; use cases live in the service layer.
type DocumentRepository interface {
	// Create inserts a new document record and returns it with its generated ID.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID within scope.
	FindByID(ctx context.Context, id int64, scope Scope) (*model.Document, error)

	// List returns a page of documents and the total row count within pq.Scope.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// Update rewrites every mutable column of a visible document.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// SoftDelete marks a document deleted. Deleting an already-deleted document is a no-op.
	SoftDelete(ctx context.Context, id int64) error

	// Restore clears the deleted flag. Restoring a visible document is a no-op.
	Restore(ctx context.Context, id int64) error
}

// PageQuery holds limit/offset pagination parameters and the visibility scope.
type PageQuery struct {
	Limit  int
	Offset int
	Scope  Scope
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
