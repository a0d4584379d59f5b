package delivery

import (
	"encoding/json"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/artcast/mediagen/internal/domain"
	"github.com/artcast/mediagen/internal/ports"
)

type GenerateHandler struct {
	svc *domain.MediaService
	gen ports.MediaGenerator
	log *logger.ZapLogger
}

func NewGenerateHandler(svc *domain.MediaService, gen ports.MediaGenerator, log *logger.ZapLogger) *GenerateHandler {
	return &GenerateHandler{
		svc: svc,
		gen: gen,
		log: log,
	}
}

type generateRequest struct {
	UserID    *int   `json:"user_id"`
	Link      string `json:"link"`
	Style     string `json:"style"`
	PersonaID *int   `json:"persona_id"`
}

func (req *generateRequest) userID() int {
	if req.UserID != nil && *req.UserID > 0 {
		return *req.UserID
	}
	return 1
}

// POST /generate
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Style == "" {
		http.Error(w, "style is required", http.StatusBadRequest)
		return
	}

	result, wan, err := h.svc.Generate(r.Context(), req.Link, req.userID(), req.Style, req.PersonaID)
	if err != nil {
		http.Error(w, "generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if result == nil {
		writeJSON(w, map[string]any{
			"success": false,
			"error":   "Failed to generate media",
		})
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media generated",
		Fields: map[string]any{
			"articleID":  result.ArticleID,
			"mediaCount": result.MediaCount,
			"wanVideo":   wan != nil,
		},
	})

	response := map[string]any{
		"success":       true,
		"article_id":    result.ArticleID,
		"media_count":   result.MediaCount,
		"media_entries": result.Entries,
	}

	if wan != nil {
		response["wan_video"] = map[string]any{
			"media_id":             wan.MediaID,
			"video_url":            wan.VideoURL,
			"num_reference_images": wan.NumReferenceImages,
		}
	}

	writeJSON(w, response)
}

// POST /manim
func (h *GenerateHandler) Manim(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Style == "" {
		http.Error(w, "style is required", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Manim(r.Context(), req.Link, req.userID())
	if err != nil {
		http.Error(w, "manim generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if result == nil {
		writeJSON(w, map[string]any{
			"success": false,
			"error":   "Failed to generate Manim video",
		})
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "manim video generated",
		Fields: map[string]any{
			"articleID": result.ArticleID,
			"mediaID":   result.MediaID,
		},
	})

	writeJSON(w, map[string]any{
		"success":    true,
		"article_id": result.ArticleID,
		"media_id":   result.MediaID,
		"video_path": result.VideoPath,
		"concept":    result.Concept,
	})
}

// POST /generate_image
func (h *GenerateHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.gen.GenerateImage(r.Context(), req.Prompt)
	if err != nil {
		http.Error(w, "image generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if result == nil || len(result.Images) == 0 {
		http.Error(w, "Failed to generate image", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"success":   true,
		"image_url": result.Images[0].URL,
		"metadata":  result.Images[0],
	})
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
