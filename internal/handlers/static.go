package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
)

// HandleStatic serves stored uploads under /static/uploads/.
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/static/")
	path = strings.TrimPrefix(path, "/")

	// Prevent directory traversal attacks
	if strings.Contains(path, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	name, ok := strings.CutPrefix(path, "uploads/")
	if !ok || name == "" {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.uploadsDir, name))
}
