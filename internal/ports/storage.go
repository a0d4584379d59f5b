package ports

import "context"

type ObjectStorage interface {
	// Upload puts a local file under the given logical folder and
	// returns a durable public URL.
	Upload(ctx context.Context, localPath, folder string) (string, error)
}
