package handlers

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/brochurer/internal/models"
)

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessionStore.GetAll()
	sessionList := make([]*models.Session, 0, len(sessions))
	for _, session := range sessions {
		sessionList = append(sessionList, session)
	}
	sort.Slice(sessionList, func(i, j int) bool {
		return sessionList[i].CreatedAt.Before(sessionList[j].CreatedAt)
	})
	h.writeJSON(w, sessionList)
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := &models.Session{
		ID:        uuid.NewString(),
		Photos:    []*models.Photo{},
		CreatedAt: time.Now(),
	}
	h.sessionStore.Set(session.ID, session)

	slog.Info("Session created", "session_id", session.ID)
	h.writeJSONStatus(w, http.StatusCreated, session)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, session)
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getSessionOrError(w, r); !ok {
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	h.sessionStore.Delete(sessionID)

	slog.Info("Session deleted", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}
