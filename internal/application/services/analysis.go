package services

import (
	"context"
	"encoding/base64"
	"errors"

	"expiry-scanner-api/internal/application/ports"
	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/domain/apperr"
)

type AnalysisService struct {
	fetcher ports.AssetFetcher
	model   ports.VisionModel
}

func NewAnalysisService(fetcher ports.AssetFetcher, model ports.VisionModel) *AnalysisService {
	return &AnalysisService{
		fetcher: fetcher,
		model:   model,
	}
}

// Analyze retrieves the image behind publicURL and asks the model for its
// expiry date. Every call is a fresh attempt.
func (as *AnalysisService) Analyze(ctx context.Context, publicURL string) (analysis.Result, error) {
	body, contentType, err := as.fetcher.Fetch(ctx, publicURL)
	if err != nil {
		return analysis.Result{}, classify(err, apperr.ErrFetch, "failed to fetch image")
	}

	text, err := as.model.Describe(ctx, analysis.Prompt, dataURL(contentType, body))
	if err != nil {
		return analysis.Result{}, classify(err, apperr.ErrAnalysis, "analysis failed")
	}

	return analysis.NewResult(text), nil
}

func dataURL(contentType string, body []byte) string {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body)
}

// classify keeps errors that already carry a kind and wraps the rest.
func classify(err, kind error, msg string) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Wrap(kind, msg, err)
}
