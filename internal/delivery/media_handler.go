package delivery

import (
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/artcast/mediagen/internal/models"
	"github.com/artcast/mediagen/internal/ports"
	"github.com/go-chi/chi/v5"
)

const defaultListLimit = 50

type MediaHandler struct {
	repo ports.MediaRepository
	log  *logger.ZapLogger
}

func NewMediaHandler(repo ports.MediaRepository, log *logger.ZapLogger) *MediaHandler {
	return &MediaHandler{
		repo: repo,
		log:  log,
	}
}

// GET /media?limit=&search=
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	var (
		entries []models.MediaWithArticle
		err     error
	)

	if search := r.URL.Query().Get("search"); search != "" {
		entries, err = h.repo.SearchMedia(r.Context(), search, limit)
	} else {
		entries, err = h.repo.GetMediaWithArticleInfo(r.Context(), limit)
	}
	if err != nil {
		http.Error(w, "failed to list media: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []models.MediaWithArticle{}
	}

	writeJSON(w, map[string]any{
		"success": true,
		"media":   entries,
	})
}

// DELETE /media/{id}
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	existed, err := h.repo.DeleteMedia(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to delete media: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if !existed {
		http.Error(w, "Media not found", http.StatusNotFound)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media deleted",
		Fields:  map[string]any{"mediaID": id},
	})

	writeJSON(w, map[string]any{
		"success":    true,
		"deleted_id": id,
	})
}

// DELETE /article/{id} — cascades to the article's media.
func (h *MediaHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	existed, err := h.repo.DeleteArticle(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to delete article: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if !existed {
		http.Error(w, "Article not found", http.StatusNotFound)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "article deleted",
		Fields:  map[string]any{"articleID": id},
	})

	writeJSON(w, map[string]any{
		"success":    true,
		"deleted_id": id,
	})
}
