package handlers

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/brochurer/internal/images"
	"github.com/lehigh-university-libraries/brochurer/internal/models"
	"github.com/lehigh-university-libraries/brochurer/internal/utils"
)

// storedFile describes an upload written to the uploads directory
type storedFile struct {
	Name     string // name inside the uploads directory
	Checksum string
	Width    int
	Height   int
}

func (h *Handler) storeUpload(fileData []byte, filename string) (*storedFile, error) {
	if err := h.ensureUploadsDir(); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	md5Hash := utils.CalculateDataMD5(fileData)
	ext := strings.ToLower(filepath.Ext(filename))
	storedName := md5Hash + ext
	storedPath := filepath.Join(h.uploadsDir, storedName)

	if err := os.WriteFile(storedPath, fileData, 0644); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	width, height, err := images.Dimensions(fileData)
	if err != nil {
		slog.Warn("Failed to get image dimensions", "filename", filename, "error", err)
		width, height = 0, 0
	}

	slog.Info("Image saved", "filename", storedName, "original", filename)

	return &storedFile{
		Name:     storedName,
		Checksum: md5Hash,
		Width:    width,
		Height:   height,
	}, nil
}

func (h *Handler) processPhoto(fileData []byte, filename, category string) (*models.Photo, error) {
	stored, err := h.storeUpload(fileData, filename)
	if err != nil {
		return nil, err
	}

	return &models.Photo{
		ID:       uuid.NewString(),
		Filename: filename,
		Source:   "/static/uploads/" + stored.Name,
		Category: strings.ToLower(strings.TrimSpace(category)),
		Width:    stored.Width,
		Height:   stored.Height,
		Checksum: stored.Checksum,
	}, nil
}

// readUpload returns the stored bytes behind a photo's source reference
func (h *Handler) readUpload(p *models.Photo) ([]byte, error) {
	name := filepath.Base(strings.TrimPrefix(p.Source, "/static/uploads/"))
	return os.ReadFile(filepath.Join(h.uploadsDir, name))
}
