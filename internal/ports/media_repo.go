package ports

import (
	"context"

	"github.com/artcast/mediagen/internal/models"
)

type MediaRepository interface {
	InsertArticle(ctx context.Context, article *models.Article) (*models.Article, error)
	InsertMedia(ctx context.Context, media *models.Media) (*models.Media, error)
	GetMediaByID(ctx context.Context, id int) (*models.Media, error)

	// GetMediaURLsByArticle returns the stored URLs of an article's
	// media filtered by type, oldest first.
	GetMediaURLsByArticle(ctx context.Context, articleID int, mediaType string) ([]string, error)

	GetMediaWithArticleInfo(ctx context.Context, limit int) ([]models.MediaWithArticle, error)
	SearchMedia(ctx context.Context, term string, limit int) ([]models.MediaWithArticle, error)

	// Deletes report whether a row existed.
	DeleteMedia(ctx context.Context, id int) (bool, error)
	DeleteArticle(ctx context.Context, id int) (bool, error)
}
