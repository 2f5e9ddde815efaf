package ports

import (
	"context"

	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/domain/upload"
	"expiry-scanner-api/internal/domain/user"
)

type UploadIssuer interface {
	IssueUploadTarget(ctx context.Context, in upload.Intent) (*upload.Target, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, publicURL string) (analysis.Result, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, email string, res analysis.Result, ref upload.PublicAssetRef) (*user.User, error)
}

type PipelineService interface {
	RequestUploadTarget(ctx context.Context, filename, contentType string) (*upload.Target, error)
	RunAnalysis(ctx context.Context, publicURL, email string) (analysis.Result, error)
}
