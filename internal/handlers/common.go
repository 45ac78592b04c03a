package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lehigh-university-libraries/brochurer/internal/assembly"
	"github.com/lehigh-university-libraries/brochurer/internal/config"
	"github.com/lehigh-university-libraries/brochurer/internal/images"
	"github.com/lehigh-university-libraries/brochurer/internal/labeling"
	"github.com/lehigh-university-libraries/brochurer/internal/models"
	"github.com/lehigh-university-libraries/brochurer/internal/storage"
)

type Handler struct {
	sessionStore   *storage.SessionStore
	engine         *assembly.Engine
	fetcher        *images.Fetcher
	labeler        *labeling.Service
	uploadsDir     string
	maxUploadBytes int64
}

func New(cfg *config.Config) *Handler {
	h := &Handler{
		sessionStore:   storage.New(),
		engine:         assembly.NewEngine(),
		fetcher:        images.NewFetcher(cfg.MaxUploadBytes),
		uploadsDir:     cfg.UploadsDir,
		maxUploadBytes: cfg.MaxUploadBytes,
	}

	provider, err := labeling.NewProvider(cfg.LabelProvider, cfg.OllamaURL)
	if err != nil {
		slog.Warn("Photo labeling disabled", "provider", cfg.LabelProvider, "error", err)
		return h
	}
	model := cfg.LabelModel
	if model == "" {
		model = labeling.DefaultModel(cfg.LabelProvider)
	}
	h.labeler = labeling.NewService(provider, model, h.readUpload)

	return h
}

// Routes wires the handler into a chi router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Get("/", h.HandleListSessions)
		r.Post("/", h.HandleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.HandleGetSession)
			r.Delete("/", h.HandleDeleteSession)
			r.Post("/photos", h.HandleUploadPhotos)
			r.Post("/floorplan", h.HandleUploadFloorPlan)
			r.Post("/label", h.HandleLabelPhotos)
			r.Post("/generate", h.HandleGenerate)
			r.Get("/brochure", h.HandleGetBrochure)
			r.Get("/brochure/manifest.yaml", h.HandleGetBrochureYAML)
		})
	})
	r.Get("/static/*", h.HandleStatic)
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	return r
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("Unable to write JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

// snapshot copies the session's photo list and floor plan under the store lock
func (h *Handler) snapshot(sessionID string) ([]*models.Photo, *models.FloorPlan) {
	var (
		photos    []*models.Photo
		floorplan *models.FloorPlan
	)
	h.sessionStore.Update(sessionID, func(s *models.Session) {
		photos = append([]*models.Photo{}, s.Photos...)
		floorplan = s.FloorPlan
	})
	return photos, floorplan
}

// File operation helpers
func (h *Handler) ensureUploadsDir() error {
	return os.MkdirAll(h.uploadsDir, 0755)
}
