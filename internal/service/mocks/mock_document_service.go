package mocks

import (
	"context"
	"io"

	"docprocessor/internal/model"
	"docprocessor/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64, uploadedBy string) (*model.Document, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size, uploadedBy)
	return docOrNil(args)
}

func (m *MockDocumentService) List(ctx context.Context, limit, offset int, includeDeleted bool) (*service.DocumentListResult, error) {
	args := m.Called(ctx, limit, offset, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id int64, includeDeleted bool) (*model.Document, error) {
	return docOrNil(m.Called(ctx, id, includeDeleted))
}

func (m *MockDocumentService) UpdateStatus(ctx context.Context, id int64, status model.DocumentStatus) (*model.Document, error) {
	return docOrNil(m.Called(ctx, id, status))
}

func (m *MockDocumentService) UpdateSummary(ctx context.Context, id int64, summary *string) (*model.Document, error) {
	return docOrNil(m.Called(ctx, id, summary))
}

func (m *MockDocumentService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDocumentService) Restore(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func docOrNil(args mock.Arguments) (*model.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}
