package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"docprocessor/internal/model"
	"docprocessor/internal/service"
)

// UserIDHeader identifies the uploader; it is recorded as the document's uploaded_by.
const UserIDHeader = "X-User-ID"

var validate = validator.New()

type updateStatusRequest struct {
	Status *int `json:"status" validate:"required"`
}

type updateSummaryRequest struct {
	Summary *string `json:"summary" validate:"omitempty,max=65536"`
}

type downloadResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// ListDocuments handles GET /documents?limit&offset&include_deleted.
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		includeDeleted, ok := includeDeletedParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INCLUDE_DELETED", "invalid include_deleted")
		}

		res, err := docSvc.List(c.UserContext(), limit, offset, includeDeleted)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument handles multipart POST /documents with the content in field "file".
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		uploadedBy := c.Get(UserIDHeader)
		if err := validate.Var(uploadedBy, "required,max=256"); err != nil {
			return writeError(c, fiber.StatusBadRequest, "USER_REQUIRED", "X-User-ID header is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docSvc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size, uploadedBy)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument handles GET /documents/:id?include_deleted.
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		includeDeleted, ok := includeDeletedParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INCLUDE_DELETED", "invalid include_deleted")
		}

		doc, err := docSvc.Get(c.UserContext(), id, includeDeleted)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument handles GET /documents/:id/download and returns a presigned URL.
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		u, err := docSvc.DownloadURL(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(downloadResponse{URL: u, ExpiresIn: int(service.DownloadURLExpiry.Seconds())})
	}
}

// UpdateStatus handles PATCH /documents/:id/status with body {"status": int}.
func UpdateStatus(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateStatusRequest
		if err := bindJSON(c, &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "status is required")
		}

		doc, err := docSvc.UpdateStatus(c.UserContext(), id, model.DocumentStatus(*req.Status))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// UpdateSummary handles PUT /documents/:id/summary with body {"summary": string|null}.
func UpdateSummary(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateSummaryRequest
		if err := bindJSON(c, &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid summary")
		}

		doc, err := docSvc.UpdateSummary(c.UserContext(), id, req.Summary)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument handles DELETE /documents/:id. The document is soft-deleted.
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RestoreDocument handles POST /documents/:id/restore and returns the restored document.
func RestoreDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Restore(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		doc, err := docSvc.Get(c.UserContext(), id, false)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

func idParam(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func includeDeletedParam(c *fiber.Ctx) (bool, bool) {
	raw := c.Query("include_deleted")
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	return v, err == nil
}

func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return err
	}
	return validate.Struct(out)
}

// serviceError maps service sentinels to HTTP responses; anything else is a 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrInvalidStatus):
		return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "status must be one of 0, 1, 2, 3")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	default:
		zerolog.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
