package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/brochurer/internal/assembly"
	"github.com/lehigh-university-libraries/brochurer/internal/intake"
	"github.com/lehigh-university-libraries/brochurer/internal/manifest"
	"github.com/lehigh-university-libraries/brochurer/internal/models"
)

// HandleGenerate assembles a brochure from the session's photos and the
// submitted form and publishes it as the session's current brochure.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getSessionOrError(w, r); !ok {
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	form, err := readForm(r)
	if err != nil {
		h.writeError(w, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	brochures, ok := h.sessionStore.Brochures(sessionID)
	if !ok {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}

	photos, floorplan := h.snapshot(sessionID)
	in := intake.Collect(photos, form, floorplan)

	brochure, err := h.engine.Generate(brochures, in)
	if err != nil {
		slog.Error("Brochure generation failed", "session_id", sessionID, "error", err)
		h.writeJSONStatus(w, httpStatusFor(err), map[string]string{"error": assembly.UserMessage(err)})
		return
	}

	slog.Info("Brochure published", "session_id", sessionID, "pages", len(brochure.Pages))
	h.writeJSON(w, brochure)
}

func httpStatusFor(err error) int {
	if assembly.IsValidation(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func readForm(r *http.Request) (intake.FormFields, error) {
	var form intake.FormFields
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return form, err
		}
		return form, nil
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			return form, err
		}
	} else if err := r.ParseForm(); err != nil {
		return form, err
	}
	return intake.FormFromValues(r.Form), nil
}

func (h *Handler) currentBrochure(w http.ResponseWriter, r *http.Request) (*models.Brochure, bool) {
	if _, ok := h.getSessionOrError(w, r); !ok {
		return nil, false
	}

	brochures, ok := h.sessionStore.Brochures(chi.URLParam(r, "sessionID"))
	if !ok {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}

	brochure, ok := brochures.Current()
	if !ok {
		h.writeError(w, "No brochure generated yet", http.StatusNotFound)
		return nil, false
	}
	return brochure, true
}

func (h *Handler) HandleGetBrochure(w http.ResponseWriter, r *http.Request) {
	brochure, ok := h.currentBrochure(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, brochure)
}

func (h *Handler) HandleGetBrochureYAML(w http.ResponseWriter, r *http.Request) {
	brochure, ok := h.currentBrochure(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	if err := manifest.EncodeYAML(w, brochure); err != nil {
		slog.Error("Unable to encode YAML response", "err", err)
	}
}

// HandleLabelPhotos fills in missing photo categories using the configured
// vision model. Labeled photos are replaced with copies so brochures that
// were already published keep their snapshot.
func (h *Handler) HandleLabelPhotos(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getSessionOrError(w, r); !ok {
		return
	}
	if h.labeler == nil {
		h.writeError(w, "Photo labeling is not configured", http.StatusServiceUnavailable)
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	photos, _ := h.snapshot(sessionID)
	copies := make([]*models.Photo, len(photos))
	for i, p := range photos {
		c := *p
		copies[i] = &c
	}

	labeled, err := h.labeler.LabelPhotos(r.Context(), copies)
	if err != nil {
		h.writeError(w, "Labeling interrupted: "+err.Error(), http.StatusInternalServerError)
		return
	}

	replacement := make(map[*models.Photo]*models.Photo, len(photos))
	for i, p := range photos {
		if copies[i].Category != p.Category {
			replacement[p] = copies[i]
		}
	}

	var result []*models.Photo
	h.sessionStore.Update(sessionID, func(s *models.Session) {
		for i, p := range s.Photos {
			if c, ok := replacement[p]; ok {
				s.Photos[i] = c
			}
		}
		result = append([]*models.Photo{}, s.Photos...)
	})

	h.writeJSON(w, map[string]any{
		"session_id": sessionID,
		"labeled":    labeled,
		"photos":     result,
	})
}
