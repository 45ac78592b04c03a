package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/brochurer/internal/models"
)

// HandleUploadPhotos appends photos to the session, either from a
// multipart upload or a JSON body with an image URL.
func (h *Handler) HandleUploadPhotos(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getSessionOrError(w, r); !ok {
		return
	}

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleURLUpload(w, r)
		return
	}

	h.handleFileUpload(w, r)
}

func (h *Handler) handleURLUpload(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ImageURL string `json:"image_url"`
		Category string `json:"category"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if request.ImageURL == "" {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return
	}

	data, filename, err := h.fetcher.Fetch(r.Context(), request.ImageURL)
	if err != nil {
		h.writeError(w, "Failed to process image URL: "+err.Error(), http.StatusBadRequest)
		return
	}

	photo, err := h.processPhoto(data, filename, request.Category)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.appendPhotos(w, r, []*models.Photo{photo}, "url")
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 20*h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeError(w, "Failed to parse upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		h.writeError(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	// one category applies to all files unless given per file
	categories := r.MultipartForm.Value["category"]

	photos := make([]*models.Photo, 0, len(headers))
	for i, header := range headers {
		fileData, err := h.readFormFile(header)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		category := ""
		switch {
		case len(categories) == len(headers):
			category = categories[i]
		case len(categories) > 0:
			category = categories[0]
		}

		photo, err := h.processPhoto(fileData, header.Filename, category)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		photos = append(photos, photo)
	}

	h.appendPhotos(w, r, photos, "upload")
}

func (h *Handler) readFormFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}
	if int64(len(fileData)) > h.maxUploadBytes {
		return nil, fmt.Errorf("file too large (max %d bytes): %s", h.maxUploadBytes, header.Filename)
	}
	return fileData, nil
}

func (h *Handler) appendPhotos(w http.ResponseWriter, r *http.Request, photos []*models.Photo, source string) {
	sessionID := chi.URLParam(r, "sessionID")

	total := 0
	ok := h.sessionStore.Update(sessionID, func(s *models.Session) {
		s.Photos = append(s.Photos, photos...)
		total = len(s.Photos)
	})
	if !ok {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}

	response := map[string]any{
		"session_id": sessionID,
		"message":    fmt.Sprintf("Successfully added %d photo(s)", len(photos)),
		"photos":     photos,
		"total":      total,
		"source":     source,
	}

	h.writeJSON(w, response)
}

// HandleUploadFloorPlan stores the session's floor plan, replacing any
// earlier one.
func (h *Handler) HandleUploadFloorPlan(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getSessionOrError(w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 2*h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	file.Close()

	fileData, err := h.readFormFile(header)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := h.storeUpload(fileData, header.Filename)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	floorplan := &models.FloorPlan{
		Filename: header.Filename,
		Source:   "/static/uploads/" + stored.Name,
	}

	sessionID := chi.URLParam(r, "sessionID")
	h.sessionStore.Update(sessionID, func(s *models.Session) {
		s.FloorPlan = floorplan
	})

	h.writeJSON(w, map[string]any{
		"session_id": sessionID,
		"message":    "Floor plan uploaded",
		"floorplan":  floorplan,
	})
}
