package services

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"expiry-scanner-api/internal/application/ports"
	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/domain/apperr"
	"expiry-scanner-api/internal/domain/upload"
	"expiry-scanner-api/internal/infrastructure/metrics"
)

// PipelineService sequences the upload and analysis steps. It holds no
// state between requests.
type PipelineService struct {
	logger     *zap.Logger
	issuer     ports.UploadIssuer
	analyzer   ports.Analyzer
	reconciler ports.Reconciler
	mCounter   *prometheus.CounterVec
}

func NewPipelineService(
	logger *zap.Logger,
	issuer ports.UploadIssuer,
	analyzer ports.Analyzer,
	reconciler ports.Reconciler,
	mCounter *prometheus.CounterVec,
) ports.PipelineService {
	return &PipelineService{
		logger:     logger,
		issuer:     issuer,
		analyzer:   analyzer,
		reconciler: reconciler,
		mCounter:   mCounter,
	}
}

func (ps *PipelineService) RequestUploadTarget(ctx context.Context, filename, contentType string) (*upload.Target, error) {
	tg, err := ps.issuer.IssueUploadTarget(ctx, upload.Intent{Filename: filename, ContentType: contentType})
	if err != nil {
		ps.mCounter.WithLabelValues(metrics.UploadTargetsFailed).Inc()
		return nil, err
	}

	ps.mCounter.WithLabelValues(metrics.UploadTargetsIssued).Inc()

	return tg, nil
}

// RunAnalysis analyzes the image and merges the outcome into the user's
// record. A missing user is reported; any other reconcile failure is logged
// and the result is still returned.
func (ps *PipelineService) RunAnalysis(ctx context.Context, publicURL, email string) (analysis.Result, error) {
	res, err := ps.analyzer.Analyze(ctx, publicURL)
	if err != nil {
		ps.mCounter.WithLabelValues(metrics.AnalysisFailed).Inc()
		return analysis.Result{}, err
	}

	if _, err = ps.reconciler.Reconcile(ctx, email, res, upload.PublicAssetRef{URL: publicURL}); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return analysis.Result{}, err
		}
		ps.mCounter.WithLabelValues(metrics.ReconcileFailed).Inc()
		ps.logger.Error("failed to reconcile analysis", zap.Error(err), zap.String("email", email))
	}

	ps.mCounter.WithLabelValues(metrics.AnalysisSucceeded).Inc()

	return res, nil
}
