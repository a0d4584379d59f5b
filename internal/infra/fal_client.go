package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/artcast/mediagen/internal/models"
	"github.com/artcast/mediagen/internal/ports"
)

// FalClient talks to the fal.ai queue API. ProcessArticle asks the
// LLM route for visual concepts, renders one flux image per concept
// and persists every artifact through the repo, so the returned ids
// are real database ids.
type FalClient struct {
	apiKey  string
	baseURL string
	repo    ports.MediaRepository
	client  *http.Client
}

func NewFalClient(apiKey, baseURL string, repo ports.MediaRepository) ports.MediaGenerator {
	return &FalClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		repo:    repo,
		client:  &http.Client{},
	}
}

type falConceptRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

type falConceptResponse struct {
	Output string `json:"output"`
}

type falImageRequest struct {
	Prompt string `json:"prompt"`
}

func (c *FalClient) ProcessArticle(
	ctx context.Context,
	articleURL string,
	userID int,
	style string,
	personaID *int,
) (*models.GenerationResult, error) {

	log.Printf("[FAL][START] url=%q style=%s user=%d", articleURL, style, userID)

	concepts, title, err := c.extractConcepts(ctx, articleURL, style, personaID)
	if err != nil {
		return nil, fmt.Errorf("extract concepts: %w", err)
	}
	if len(concepts) == 0 {
		log.Printf("[FAL][EMPTY] no concepts for url=%q", articleURL)
		return nil, nil
	}

	article, err := c.repo.InsertArticle(ctx, &models.Article{
		URL:   articleURL,
		Title: title,
	})
	if err != nil {
		return nil, err
	}

	var entries []models.MediaEntry
	for _, concept := range concepts {
		img, err := c.GenerateImage(ctx, concept)
		if err != nil || len(img.Images) == 0 {
			log.Printf("[FAL][SKIP] concept=%q err=%v", truncate(concept, 80), err)
			continue
		}

		media, err := c.repo.InsertMedia(ctx, &models.Media{
			ArticleID: article.ID,
			Prompt:    concept,
			Style:     style,
			Type:      models.MediaTypeImage,
			URL:       img.Images[0].URL,
		})
		if err != nil {
			return nil, err
		}

		entries = append(entries, models.MediaEntry{
			MediaID: media.ID,
			URL:     media.URL,
			Concept: concept,
		})
	}

	if len(entries) == 0 {
		log.Printf("[FAL][EMPTY] article=%d produced no media", article.ID)
		return nil, nil
	}

	log.Printf("[FAL][OK] article=%d media=%d", article.ID, len(entries))

	return &models.GenerationResult{
		ArticleID:  article.ID,
		MediaCount: len(entries),
		Entries:    entries,
	}, nil
}

func (c *FalClient) extractConcepts(
	ctx context.Context,
	articleURL, style string,
	personaID *int,
) ([]string, string, error) {

	prompt := fmt.Sprintf(
		"Read the article at %s and propose up to 3 short visual concepts in the %q style. "+
			"Return one concept per line, first line is the article title.",
		articleURL, style,
	)
	if personaID != nil {
		prompt += fmt.Sprintf(" Write for persona #%d.", *personaID)
	}

	body, err := json.Marshal(falConceptRequest{
		Prompt: prompt,
		Model:  "nvidia/nemotron-nano-9b-v2",
	})
	if err != nil {
		return nil, "", err
	}

	raw, err := c.post(ctx, c.baseURL+"/fal-ai/any-llm", body)
	if err != nil {
		return nil, "", err
	}

	var out falConceptResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, "", fmt.Errorf("decode concepts: %w", err)
	}

	var title string
	var concepts []string
	for i, ln := range strings.Split(out.Output, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		if i == 0 {
			title = ln
			continue
		}
		concepts = append(concepts, ln)
	}

	return concepts, title, nil
}

func (c *FalClient) GenerateImage(ctx context.Context, prompt string) (*models.ImageResult, error) {
	body, err := json.Marshal(falImageRequest{Prompt: prompt})
	if err != nil {
		return nil, err
	}

	raw, err := c.post(ctx, c.baseURL+"/fal-ai/flux/dev", body)
	if err != nil {
		return nil, err
	}

	var out models.ImageResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode image result: %w", err)
	}

	return &out, nil
}

// post fires the request up to 3 times on transport errors.
func (c *FalClient) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Key "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("fal http %d: %s", resp.StatusCode, truncate(string(raw), 180))
			continue
		}

		return raw, nil
	}

	return nil, fmt.Errorf("fal request failed after retries: %w", lastErr)
}
