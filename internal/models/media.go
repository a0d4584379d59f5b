package models

import "time"

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

type Media struct {
	ID        int       `db:"id" json:"id"`
	ArticleID int       `db:"article_id" json:"article_id"`
	Prompt    string    `db:"prompt" json:"prompt"` // truncated to 500 chars on insert
	Style     string    `db:"style" json:"style"`   // "classic", "manim", "wan_video", ...
	Type      string    `db:"media_type" json:"media_type"`
	URL       string    `db:"media_url" json:"media_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MediaWithArticle is the listing row: media joined with its article.
type MediaWithArticle struct {
	Media
	ArticleURL   string `db:"article_url" json:"article_url"`
	ArticleTitle string `db:"article_title" json:"article_title"`
}
