package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/domain/apperr"
)

type fakeFetcher struct {
	body        []byte
	contentType string
	err         error
	gotURL      string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, string, error) {
	f.gotURL = url
	return f.body, f.contentType, f.err
}

type fakeModel struct {
	text      string
	err       error
	calls     int
	gotPrompt string
	gotImage  string
}

func (f *fakeModel) Describe(_ context.Context, prompt, image string) (string, error) {
	f.calls++
	f.gotPrompt, f.gotImage = prompt, image
	return f.text, f.err
}

func TestAnalysisService_Analyze(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{body: []byte("img"), contentType: "image/png"}
	model := &fakeModel{text: " 2025-03-01\n"}

	res, err := NewAnalysisService(fetcher, model).Analyze(ctx, "https://cdn.example.com/uploads/1-a.png")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-01", res.ExtractedDate)
	assert.Equal(t, "https://cdn.example.com/uploads/1-a.png", fetcher.gotURL)
	assert.Equal(t, analysis.Prompt, model.gotPrompt)
	assert.Equal(t, "data:image/png;base64,aW1n", model.gotImage)
}

func TestAnalysisService_Analyze_EmptyAnswer(t *testing.T) {
	res, err := NewAnalysisService(&fakeFetcher{body: []byte("x")}, &fakeModel{text: "   "}).
		Analyze(context.Background(), "https://cdn.example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, analysis.NotFound, res.ExtractedDate)
}

func TestAnalysisService_Analyze_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("fetch failure skips the model", func(t *testing.T) {
		model := &fakeModel{}
		_, err := NewAnalysisService(
			&fakeFetcher{err: apperr.New(apperr.ErrFetch, "failed to fetch image: 404")},
			model,
		).Analyze(ctx, "https://cdn.example.com/missing.jpg")

		require.ErrorIs(t, err, apperr.ErrFetch)
		assert.Equal(t, "failed to fetch image: 404", apperr.MessageOf(err, ""))
		assert.Zero(t, model.calls)
	})

	t.Run("untyped fetch error", func(t *testing.T) {
		_, err := NewAnalysisService(&fakeFetcher{err: errors.New("dial tcp")}, &fakeModel{}).
			Analyze(ctx, "https://cdn.example.com/a.jpg")
		require.ErrorIs(t, err, apperr.ErrFetch)
	})

	t.Run("model failure", func(t *testing.T) {
		_, err := NewAnalysisService(&fakeFetcher{body: []byte("x")}, &fakeModel{err: errors.New("quota")}).
			Analyze(ctx, "https://cdn.example.com/a.jpg")
		require.ErrorIs(t, err, apperr.ErrAnalysis)
	})

	t.Run("model configuration error passes through", func(t *testing.T) {
		_, err := NewAnalysisService(
			&fakeFetcher{body: []byte("x")},
			&fakeModel{err: apperr.New(apperr.ErrConfiguration, "AI_BASE_URL is not set")},
		).Analyze(ctx, "https://cdn.example.com/a.jpg")
		require.ErrorIs(t, err, apperr.ErrConfiguration)
	})
}
