package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/artcast/mediagen/internal/models"
	"github.com/artcast/mediagen/internal/ports"
)

// ManimClient calls the external manim render service. The retry
// budget is forwarded in the request: the renderer regenerates broken
// scene code on its side, we do not loop here.
type ManimClient struct {
	baseURL string
	client  *http.Client
}

func NewManimClient(baseURL string) ports.ManimGenerator {
	return &ManimClient{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

type manimRequest struct {
	ArticleURL string `json:"article_url"`
	UserID     int    `json:"user_id"`
	Style      string `json:"style"`
	MaxRetries int    `json:"max_retries"`
}

type manimResponse struct {
	Success   bool   `json:"success"`
	ArticleID int    `json:"article_id"`
	MediaID   int    `json:"media_id"`
	VideoPath string `json:"video_path"`
	Concept   string `json:"concept"`
	Error     string `json:"error"`
}

func (c *ManimClient) ProcessArticle(
	ctx context.Context,
	articleURL string,
	userID int,
	maxRetries int,
) (*models.ManimResult, error) {

	if c.baseURL == "" {
		return nil, fmt.Errorf("MANIM_API_URL is not set")
	}

	log.Printf("[MANIM][START] url=%q retries=%d", articleURL, maxRetries)

	body, err := json.Marshal(manimRequest{
		ArticleURL: articleURL,
		UserID:     userID,
		Style:      "manim",
		MaxRetries: maxRetries,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("manim request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manim http %d: %s", resp.StatusCode, truncate(string(raw), 180))
	}

	var out manimResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode manim response: %w", err)
	}

	if !out.Success {
		log.Printf("[MANIM][EMPTY] url=%q err=%s", articleURL, out.Error)
		return nil, nil
	}

	log.Printf("[MANIM][OK] article=%d media=%d", out.ArticleID, out.MediaID)

	return &models.ManimResult{
		ArticleID: out.ArticleID,
		MediaID:   out.MediaID,
		VideoPath: out.VideoPath,
		Concept:   out.Concept,
	}, nil
}
