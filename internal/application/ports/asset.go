package ports

import (
	"context"

	"expiry-scanner-api/internal/domain/upload"
)

type AssetFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

type AssetTransferer interface {
	Transfer(ctx context.Context, cred upload.WriteCredential, body []byte, contentType string) error
}
