package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/domain/apperr"
	"expiry-scanner-api/internal/domain/upload"
	"expiry-scanner-api/internal/domain/user"
	"expiry-scanner-api/internal/infrastructure/metrics"
)

type stubIssuer struct {
	target *upload.Target
	err    error
	got    upload.Intent
}

func (s *stubIssuer) IssueUploadTarget(_ context.Context, in upload.Intent) (*upload.Target, error) {
	s.got = in
	return s.target, s.err
}

type stubAnalyzer struct {
	res analysis.Result
	err error
}

func (s *stubAnalyzer) Analyze(context.Context, string) (analysis.Result, error) {
	return s.res, s.err
}

type stubReconciler struct {
	err    error
	calls  int
	gotRef upload.PublicAssetRef
}

func (s *stubReconciler) Reconcile(_ context.Context, _ string, _ analysis.Result, ref upload.PublicAssetRef) (*user.User, error) {
	s.calls++
	s.gotRef = ref
	if s.err != nil {
		return nil, s.err
	}
	return &user.User{}, nil
}

func TestPipelineService_RequestUploadTarget(t *testing.T) {
	counter := newTestCounter()
	issuer := &stubIssuer{target: &upload.Target{Key: "uploads/1-a.jpg"}}
	ps := NewPipelineService(zap.NewNop(), issuer, &stubAnalyzer{}, &stubReconciler{}, counter)

	tg, err := ps.RequestUploadTarget(context.Background(), "a.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, upload.StorageKey("uploads/1-a.jpg"), tg.Key)
	assert.Equal(t, upload.Intent{Filename: "a.jpg", ContentType: "image/jpeg"}, issuer.got)
	assert.Equal(t, float64(1), counterValue(counter, metrics.UploadTargetsIssued))

	issuer.err = apperr.New(apperr.ErrStorage, "sign failed")
	_, err = ps.RequestUploadTarget(context.Background(), "a.jpg", "image/jpeg")
	require.ErrorIs(t, err, apperr.ErrStorage)
	assert.Equal(t, float64(1), counterValue(counter, metrics.UploadTargetsFailed))
}

func TestPipelineService_RunAnalysis(t *testing.T) {
	ctx := context.Background()
	ok := analysis.Result{ExtractedDate: "2025-03-01"}

	t.Run("success", func(t *testing.T) {
		rec := &stubReconciler{}
		counter := newTestCounter()
		res, err := NewPipelineService(zap.NewNop(), &stubIssuer{}, &stubAnalyzer{res: ok}, rec, counter).
			RunAnalysis(ctx, "https://cdn.example.com/a.jpg", "a@b.com")

		require.NoError(t, err)
		assert.Equal(t, ok, res)
		assert.Equal(t, "https://cdn.example.com/a.jpg", rec.gotRef.URL)
		assert.Equal(t, float64(1), counterValue(counter, metrics.AnalysisSucceeded))
	})

	t.Run("analysis failure skips reconcile", func(t *testing.T) {
		rec := &stubReconciler{}
		counter := newTestCounter()
		_, err := NewPipelineService(zap.NewNop(), &stubIssuer{},
			&stubAnalyzer{err: apperr.New(apperr.ErrFetch, "failed to fetch image: 404")}, rec, counter).
			RunAnalysis(ctx, "https://cdn.example.com/a.jpg", "a@b.com")

		require.ErrorIs(t, err, apperr.ErrFetch)
		assert.Zero(t, rec.calls)
		assert.Equal(t, float64(1), counterValue(counter, metrics.AnalysisFailed))
	})

	t.Run("missing user is reported", func(t *testing.T) {
		_, err := NewPipelineService(zap.NewNop(), &stubIssuer{}, &stubAnalyzer{res: ok},
			&stubReconciler{err: apperr.New(apperr.ErrNotFound, MsgUserNotFound)}, newTestCounter()).
			RunAnalysis(ctx, "https://cdn.example.com/a.jpg", "nobody@b.com")

		require.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("reconcile failure still returns result", func(t *testing.T) {
		counter := newTestCounter()
		res, err := NewPipelineService(zap.NewNop(), &stubIssuer{}, &stubAnalyzer{res: ok},
			&stubReconciler{err: apperr.Wrap(apperr.ErrReconcile, "failed to update user", errors.New("deadlock"))}, counter).
			RunAnalysis(ctx, "https://cdn.example.com/a.jpg", "a@b.com")

		require.NoError(t, err)
		assert.Equal(t, ok, res)
		assert.Equal(t, float64(1), counterValue(counter, metrics.ReconcileFailed))
	})
}
