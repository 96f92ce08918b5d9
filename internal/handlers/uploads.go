package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/artmarket/backend/internal/config"
	"github.com/artmarket/backend/internal/storage"
	"github.com/artmarket/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	errFileTooLarge    = errors.New("file too large")
	errTooManyFiles    = errors.New("too many files")
	errInvalidFileType = errors.New("invalid file type")
)

// formImage extracts and checks the single image file of a multipart request.
// Returns (nil, nil) when the request carries no file under field.
func formImage(c *fiber.Ctx, cfg config.UploadConfig, field string) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}

	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > 1 {
		return nil, errTooManyFiles
	}

	fileHeader := files[0]
	if fileHeader.Size > cfg.MaxFileSize {
		return nil, errFileTooLarge
	}

	contentType := fileHeader.Header.Get("Content-Type")
	allowed := false
	for _, candidate := range cfg.AllowedTypes {
		if strings.EqualFold(contentType, candidate) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, errInvalidFileType
	}

	return fileHeader, nil
}

// rejectUpload maps an intake error to its 400 response. The request never
// reaches handler logic when this fires.
func rejectUpload(c *fiber.Ctx, cfg config.UploadConfig, err error) error {
	switch {
	case errors.Is(err, errFileTooLarge):
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeUploadRejected,
			fmt.Sprintf("File too large: file size must be less than %dMB", cfg.MaxFileSize/(1024*1024)))
	case errors.Is(err, errTooManyFiles):
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeUploadRejected,
			"Too many files: only one file is allowed per request")
	case errors.Is(err, errInvalidFileType):
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeUploadRejected,
			fmt.Sprintf("Invalid file type: only %s files are allowed", strings.Join(cfg.AllowedTypes, ", ")))
	default:
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeUploadRejected, "Upload error")
	}
}

// storeImage streams the uploaded file to object storage under
// <folder>/<uuid>/<name> and returns the public URL for the record.
func storeImage(c *fiber.Ctx, store *storage.Client, fileHeader *multipart.FileHeader, folder string) (string, error) {
	if store == nil {
		return "", errors.New("object storage is not configured")
	}

	stream, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer stream.Close()

	filename := filepath.Base(strings.TrimSpace(fileHeader.Filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return "", errors.New("invalid filename")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	objectName := fmt.Sprintf("%s/%s/%s", folder, uuid.New().String(), filename)
	if err := store.Upload(c.Context(), objectName, stream, fileHeader.Size, contentType); err != nil {
		return "", err
	}

	return store.PublicURL(objectName), nil
}
