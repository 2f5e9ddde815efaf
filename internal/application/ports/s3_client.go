package ports

import (
	"context"

	"expiry-scanner-api/internal/domain/upload"
)

type S3Client interface {
	PresignPut(ctx context.Context, key, contentType string) (upload.WriteCredential, error)
	GetPublicURL(key string) string
	GetBucket() string
}
