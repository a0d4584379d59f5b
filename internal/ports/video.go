package ports

import "context"

// VideoJob is one render invocation for the local video engine.
type VideoJob struct {
	Prompt    string
	RefImages []string // local paths, first one is the anchor
	OutPath   string
}

type VideoEngine interface {
	// Generate renders a video and returns the path of the produced
	// file. The file is guaranteed to exist on nil error.
	Generate(ctx context.Context, job VideoJob) (string, error)
}
