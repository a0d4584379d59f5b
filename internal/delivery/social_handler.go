package delivery

import (
	"encoding/json"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/artcast/mediagen/internal/ports"
)

type SocialHandler struct {
	repo   ports.MediaRepository
	poster ports.SocialPoster
	log    *logger.ZapLogger
}

func NewSocialHandler(repo ports.MediaRepository, poster ports.SocialPoster, log *logger.ZapLogger) *SocialHandler {
	return &SocialHandler{
		repo:   repo,
		poster: poster,
		log:    log,
	}
}

type xPostRequest struct {
	UserID  int    `json:"user_id"`
	MediaID int    `json:"media_id"`
	Text    string `json:"text"`
}

// POST /x_post
func (h *SocialHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req xPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	media, err := h.repo.GetMediaByID(r.Context(), req.MediaID)
	if err != nil {
		http.Error(w, "failed to fetch media: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if media == nil {
		http.Error(w, "Media not found", http.StatusNotFound)
		return
	}

	result, err := h.poster.PostMedia(r.Context(), media.URL, req.Text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media posted to X",
		Fields: map[string]any{
			"mediaID": req.MediaID,
			"userID":  req.UserID,
		},
	})

	writeJSON(w, result)
}
