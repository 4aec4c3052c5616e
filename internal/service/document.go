package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docprocessor/internal/model"
	"docprocessor/internal/repository"
	"docprocessor/internal/storage"
)

var (
	ErrIDRequired    = errors.New("id is required")
	ErrNotFound      = errors.New("document not found")
	ErrReaderNil     = errors.New("reader is nil")
	ErrInvalidStatus = errors.New("invalid document status")
)

// DownloadURLExpiry is how long presigned download links stay valid.
const DownloadURLExpiry = 15 * time.Minute

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for handling documents.
// Every read takes includeDeleted explicitly; false hides soft-deleted documents.
type DocumentService interface {
	// Upload stores the content, records its metadata as a pending document and removes the object
	// again if the record cannot be saved.
	Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64, uploadedBy string) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int, includeDeleted bool) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id int64, includeDeleted bool) (*model.Document, error)

	// UpdateStatus sets the processing status of a visible document.
	UpdateStatus(ctx context.Context, id int64, status model.DocumentStatus) (*model.Document, error)

	// UpdateSummary sets or clears the summary of a visible document.
	UpdateSummary(ctx context.Context, id int64, summary *string) (*model.Document, error)

	// Delete soft-deletes a document. The stored object is kept so the document can be restored.
	Delete(ctx context.Context, id int64) error

	// Restore makes a soft-deleted document visible again.
	Restore(ctx context.Context, id int64) error

	// DownloadURL returns a presigned URL for the content of a visible document.
	DownloadURL(ctx context.Context, id int64) (string, error)
}

type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository) DocumentService {
	return &documentService{store: store, repo: repo}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64, uploadedBy string) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	ext := strings.ToLower(filepath.Ext(originalFilename))
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("documents", genName))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
			"uploaded-by":       uploadedBy,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		FileName:         genName,
		OriginalFileName: originalFilename,
		FileExtension:    ext,
		FileSize:         objInfo.Size,
		ContentType:      objInfo.ContentType,
		StoragePath:      objInfo.Key,
		Status:           model.StatusPending,
		UploadedBy:       uploadedBy,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			zerolog.Ctx(ctx).Error().Err(delErr).Str("key", key).Msg("rollback of uploaded object failed")
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Int64("document_id", stored.ID).
		Str("storage_path", stored.StoragePath).
		Int64("size", stored.FileSize).
		Msg("document uploaded")
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int, includeDeleted bool) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{
		Limit:  limit,
		Offset: offset,
		Scope:  repository.ScopeFor(includeDeleted),
	})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Get(ctx context.Context, id int64, includeDeleted bool) (*model.Document, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id, repository.ScopeFor(includeDeleted))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return doc, nil
}

func (s *documentService) UpdateStatus(ctx context.Context, id int64, status model.DocumentStatus) (*model.Document, error) {
	if !status.Known() {
		return nil, ErrInvalidStatus
	}
	return s.modify(ctx, id, func(d *model.Document) { d.Status = status })
}

func (s *documentService) UpdateSummary(ctx context.Context, id int64, summary *string) (*model.Document, error) {
	return s.modify(ctx, id, func(d *model.Document) { d.Summary = summary })
}

// modify reads a visible document, applies fn and writes every mutable column back.
func (s *documentService) modify(ctx context.Context, id int64, fn func(*model.Document)) (*model.Document, error) {
	doc, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	fn(doc)
	updated, err := s.repo.Update(ctx, doc)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return updated, nil
}

func (s *documentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrIDRequired
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	zerolog.Ctx(ctx).Info().Int64("document_id", id).Msg("document soft-deleted")
	return nil
}

func (s *documentService) Restore(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrIDRequired
	}
	if err := s.repo.Restore(ctx, id); err != nil {
		return mapNotFound(err)
	}
	zerolog.Ctx(ctx).Info().Int64("document_id", id).Msg("document restored")
	return nil
}

func (s *documentService) DownloadURL(ctx context.Context, id int64) (string, error) {
	doc, err := s.Get(ctx, id, false)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, doc.StoragePath, DownloadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
