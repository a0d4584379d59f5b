package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/artcast/mediagen/internal/ports"
)

type XClient struct {
	apiURL      string
	bearerToken string
	client      *http.Client
}

func NewXClient(apiURL, bearerToken string) ports.SocialPoster {
	return &XClient{
		apiURL:      apiURL,
		bearerToken: bearerToken,
		client:      http.DefaultClient,
	}
}

type xPostRequest struct {
	Text     string `json:"text"`
	MediaURL string `json:"media_url"`
}

func (c *XClient) PostMedia(ctx context.Context, mediaURL, text string) (map[string]any, error) {
	if c.bearerToken == "" {
		return nil, fmt.Errorf("no X_BEARER_TOKEN")
	}

	body, err := json.Marshal(xPostRequest{Text: text, MediaURL: mediaURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("x post request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("x post http %d: %s", resp.StatusCode, truncate(string(raw), 180))
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode x response: %w", err)
	}

	return out, nil
}
