package ports

import "context"

type SocialPoster interface {
	PostMedia(ctx context.Context, mediaURL, text string) (map[string]any, error)
}
