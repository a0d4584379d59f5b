package ports

import (
	"context"

	"github.com/artcast/mediagen/internal/models"
)

// MediaGenerator is the primary article-to-media path. A nil result
// with nil error means the upstream produced nothing usable.
type MediaGenerator interface {
	ProcessArticle(ctx context.Context, articleURL string, userID int, style string, personaID *int) (*models.GenerationResult, error)
	GenerateImage(ctx context.Context, prompt string) (*models.ImageResult, error)
}

// ManimGenerator renders an explanatory video from an article. The
// retry budget is executed by the collaborator, not by us.
type ManimGenerator interface {
	ProcessArticle(ctx context.Context, articleURL string, userID int, maxRetries int) (*models.ManimResult, error)
}
