package ports

import "context"

type VisionModel interface {
	Describe(ctx context.Context, prompt, imageDataURL string) (string, error)
}
