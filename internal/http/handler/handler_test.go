package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docprocessor/internal/model"
	"docprocessor/internal/service"
	serviceMocks "docprocessor/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func decodeError(t *testing.T, r io.Reader) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp.Body).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDatabaseInfo(t *testing.T) {
	info := service.NewDatabaseInfo()
	info.HostAddress = "db.internal:5432"

	app := fiber.New()
	app.Get("/database-info", DatabaseInfo(info))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/database-info", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]string{
		"database_type": "PostgreSQL",
		"secret_name":   "None",
		"host_address":  "db.internal:5432",
	}, body)
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents", ListDocuments(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.DocumentListResult{
			Items: []model.Document{{ID: 1, FileName: "test.pdf"}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, 10, 0, false).Return(expectedRes, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents?limit=10&offset=0", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("include deleted", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 5, 10, true).
			Return(&service.DocumentListResult{Items: []model.Document{{ID: 3, IsDeleted: true}}, Total: 11}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents?limit=5&offset=10&include_deleted=true", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents?limit=abc", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("invalid include_deleted", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents?include_deleted=maybe", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_INCLUDE_DELETED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 10, 0, false).Return(nil, errors.New("service error")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/documents", UploadDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartUpload(t, "test.txt", "hello world")

		expectedDoc := &model.Document{ID: 12, FileName: "abc.txt", Status: model.StatusPending, UploadedBy: "user-1"}
		mockSvc.On("Upload", mock.Anything, mock.Anything, "test.txt", mock.Anything, int64(11), "user-1").
			Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set(UserIDHeader, "user-1")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Document
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, expectedDoc.ID, result.ID)
		assert.Equal(t, model.StatusPending, result.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/documents", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("missing user header", func(t *testing.T) {
		body, ct := multipartUpload(t, "test.txt", "hello")

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "USER_REQUIRED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		body, ct := multipartUpload(t, "test.txt", "hello")

		mockSvc.On("Upload", mock.Anything, mock.Anything, "test.txt", mock.Anything, mock.Anything, "user-1").
			Return(nil, errors.New("upload failed")).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set(UserIDHeader, "user-1")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id", GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedDoc := &model.Document{ID: 7, FileName: "test.txt", Status: model.StatusFailed}
		mockSvc.On("Get", mock.Anything, int64(7), false).Return(expectedDoc, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents/7", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Document
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, int64(7), result.ID)
		assert.Equal(t, model.StatusFailed, result.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("soft-deleted with include_deleted", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(8), true).Return(&model.Document{ID: 8, IsDeleted: true}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents/8?include_deleted=1", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.Document
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.True(t, result.IsDeleted)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(9), false).Return(nil, service.ErrNotFound).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents/9", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	for _, raw := range []string{"abc", "0", "-4"} {
		t.Run("invalid id "+raw, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+raw, nil))
			require.NoError(t, err)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "INVALID_ID", decodeError(t, resp.Body).Error.Code)
		})
	}

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(10), false).Return(nil, errors.New("db error")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents/10", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDownloadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id/download", DownloadDocument(mockSvc))

	mockSvc.On("DownloadURL", mock.Anything, int64(3)).Return("http://minio/documents/a.pdf?sig", nil).Once()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents/3/download", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body downloadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "http://minio/documents/a.pdf?sig", body.URL)
	assert.Equal(t, 900, body.ExpiresIn)
	mockSvc.AssertExpectations(t)
}

func TestUpdateStatus(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Patch("/documents/:id/status", UpdateStatus(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("UpdateStatus", mock.Anything, int64(4), model.StatusCompleted).
			Return(&model.Document{ID: 4, Status: model.StatusCompleted}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPatch, "/documents/4/status", `{"status":2}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.Document
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, model.StatusCompleted, result.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("zero status is accepted", func(t *testing.T) {
		mockSvc.On("UpdateStatus", mock.Anything, int64(4), model.StatusPending).
			Return(&model.Document{ID: 4}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPatch, "/documents/4/status", `{"status":0}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing status", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPatch, "/documents/4/status", `{}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		mockSvc.On("UpdateStatus", mock.Anything, int64(4), model.DocumentStatus(7)).
			Return(nil, service.ErrInvalidStatus).Once()

		resp, err := app.Test(jsonRequest(http.MethodPatch, "/documents/4/status", `{"status":7}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_STATUS", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("UpdateStatus", mock.Anything, int64(5), model.StatusFailed).
			Return(nil, service.ErrNotFound).Once()

		resp, err := app.Test(jsonRequest(http.MethodPatch, "/documents/5/status", `{"status":3}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateSummary(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Put("/documents/:id/summary", UpdateSummary(mockSvc))

	t.Run("set", func(t *testing.T) {
		mockSvc.On("UpdateSummary", mock.Anything, int64(6), strPtr("short summary")).
			Return(&model.Document{ID: 6, Summary: strPtr("short summary")}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPut, "/documents/6/summary", `{"summary":"short summary"}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.Document
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		require.NotNil(t, result.Summary)
		assert.Equal(t, "short summary", *result.Summary)
		mockSvc.AssertExpectations(t)
	})

	t.Run("clear", func(t *testing.T) {
		mockSvc.On("UpdateSummary", mock.Anything, int64(6), (*string)(nil)).
			Return(&model.Document{ID: 6}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPut, "/documents/6/summary", `{"summary":null}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPut, "/documents/6/summary", `{"summary":`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp.Body).Error.Code)
	})
}

func TestDeleteDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Delete("/documents/:id", DeleteDocument(mockSvc))

	t.Run("success is repeatable", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(1)).Return(nil).Twice()

		for i := 0; i < 2; i++ {
			resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/1", nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		}
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(2)).Return(service.ErrNotFound).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/2", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(3)).Return(errors.New("delete error")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/3", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRestoreDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/documents/:id/restore", RestoreDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Restore", mock.Anything, int64(5)).Return(nil).Once()
		mockSvc.On("Get", mock.Anything, int64(5), false).Return(&model.Document{ID: 5}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/documents/5/restore", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.Document
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.False(t, result.IsDeleted)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Restore", mock.Anything, int64(6)).Return(service.ErrNotFound).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/documents/6/restore", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockDocumentService)
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "routing_test_total", Help: "test"}))
	RegisterRoutes(app, nil, mockSvc, service.NewDatabaseInfo(), reg)

	t.Run("not found route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(b), "routing_test_total")
	})

	t.Run("database info", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/database-info", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("docs page", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	})
}
