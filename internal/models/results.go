package models

// MediaEntry is one artifact produced by the primary generation path.
type MediaEntry struct {
	MediaID int    `json:"media_id"`
	URL     string `json:"media_url"`
	Concept string `json:"concept"`
}

type GenerationResult struct {
	ArticleID  int          `json:"article_id"`
	MediaCount int          `json:"media_count"`
	Entries    []MediaEntry `json:"media_entries"`
}

type ManimResult struct {
	ArticleID int    `json:"article_id"`
	MediaID   int    `json:"media_id"`
	VideoPath string `json:"video_path"`
	Concept   string `json:"concept"`
}

// ImageResult is the text-to-image payload as returned by the
// generation API: a list of images plus provider metadata.
type ImageResult struct {
	Images []ImageInfo `json:"images"`
}

type ImageInfo struct {
	URL         string `json:"url"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// WanVideoResult summarizes one successful augmentation run.
type WanVideoResult struct {
	MediaID            int    `json:"media_id"`
	VideoURL           string `json:"video_url"`
	Prompt             string `json:"prompt"`
	NumReferenceImages int    `json:"num_reference_images"`
}

// MediaEvent is broadcast to websocket subscribers when a new
// artifact lands.
type MediaEvent struct {
	Kind      string `json:"kind"` // "image" | "video" | "manim"
	ArticleID int    `json:"articleId"`
	MediaID   int    `json:"mediaId"`
	URL       string `json:"url"`
}
