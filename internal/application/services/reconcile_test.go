package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/domain/apperr"
	"expiry-scanner-api/internal/domain/upload"
	"expiry-scanner-api/internal/domain/user"
	"expiry-scanner-api/internal/infrastructure/metrics"
	"expiry-scanner-api/internal/infrastructure/mq"
)

func strPtr(s string) *string { return &s }

func TestReconcileService_MergesAnalysisFields(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	existing := &user.User{
		ID:          7,
		UUID:        user.UUID{7},
		Email:       "a@b.com",
		PhoneNumber: strPtr("+100"),
		IsActive:    true,
		CreatedAt:   created,
		ExpiryDate:  strPtr("2020-01-01"),
	}
	users := &fakeUserRepo{users: user.Users{existing}}
	history := &fakeHistoryRepo{}
	pub := &fakePublisher{}
	at := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

	rs := NewReconcileService(zap.NewNop(), users, history, pub, newTestCounter(), "Britannia Bread")
	rs.now = func() time.Time { return at }

	got, err := rs.Reconcile(
		context.Background(),
		"a@b.com",
		analysis.Result{ExtractedDate: "2025-03-01"},
		upload.PublicAssetRef{URL: "https://cdn.example.com/uploads/1-a.jpg"},
	)
	require.NoError(t, err)
	require.Len(t, users.updated, 1)
	assert.Equal(t, lookupLimit, users.gotLimit)

	assert.Equal(t, "2025-03-01", *got.ExpiryDate)
	assert.Equal(t, "Britannia Bread", *got.ProductName)
	assert.Equal(t, at, *got.LastAnalyzedAt)
	assert.Equal(t, "https://cdn.example.com/uploads/1-a.jpg", *got.ImageURL)

	assert.Equal(t, "+100", *got.PhoneNumber)
	assert.Equal(t, created, got.CreatedAt)
	assert.True(t, got.IsActive)
	assert.Equal(t, existing.UUID, got.UUID)

	require.Len(t, history.records, 1)
	assert.Equal(t, uint64(7), history.records[0].UserID)
	assert.Equal(t, "2025-03-01", history.records[0].ExtractedDate)

	require.Len(t, pub.events, 1)
	assert.Equal(t, mq.ActionExpiryAnalyzed, pub.events[0].Action)
	assert.Equal(t, existing.UUID.String(), pub.events[0].UserID)
}

func TestReconcileService_DuplicateEmailsUpdateFirst(t *testing.T) {
	users := &fakeUserRepo{users: user.Users{
		{ID: 1, UUID: user.UUID{1}, Email: "dup@b.com"},
		{ID: 2, UUID: user.UUID{2}, Email: "dup@b.com"},
	}}
	counter := newTestCounter()
	core, logs := observer.New(zap.InfoLevel)

	rs := NewReconcileService(zap.New(core), users, &fakeHistoryRepo{}, &fakePublisher{}, counter, "Bread")
	_, err := rs.Reconcile(context.Background(), "dup@b.com", analysis.Result{ExtractedDate: "2025-01-01"}, upload.PublicAssetRef{})
	require.NoError(t, err)

	require.Len(t, users.updated, 1)
	assert.Equal(t, user.ID(1), users.updated[0].ID)
	assert.Equal(t, float64(1), counterValue(counter, metrics.DuplicateUserRecords))

	warns := logs.FilterMessage("duplicate user records for email").All()
	require.Len(t, warns, 1)
	assert.Equal(t, zapcore.WarnLevel, warns[0].Level)
	fields := warns[0].ContextMap()
	assert.Equal(t, "dup@b.com", fields["email"])
	assert.Equal(t, user.UUID{1}.String(), fields["user_uuid"])
}

func TestReconcileService_Errors(t *testing.T) {
	ctx := context.Background()
	res := analysis.Result{ExtractedDate: "2025-01-01"}

	t.Run("no matching user", func(t *testing.T) {
		counter := newTestCounter()
		users := &fakeUserRepo{}
		pub := &fakePublisher{}
		_, err := NewReconcileService(zap.NewNop(), users, &fakeHistoryRepo{}, pub, counter, "Bread").
			Reconcile(ctx, "nobody@b.com", res, upload.PublicAssetRef{})

		require.ErrorIs(t, err, apperr.ErrNotFound)
		assert.Equal(t, MsgUserNotFound, apperr.MessageOf(err, ""))
		assert.Empty(t, users.updated)
		assert.Empty(t, pub.events)
		assert.Equal(t, float64(1), counterValue(counter, metrics.ReconcileUserNotFound))
	})

	t.Run("lookup failure", func(t *testing.T) {
		_, err := NewReconcileService(zap.NewNop(), &fakeUserRepo{lookupErr: errors.New("conn reset")},
			&fakeHistoryRepo{}, &fakePublisher{}, newTestCounter(), "Bread").
			Reconcile(ctx, "a@b.com", res, upload.PublicAssetRef{})
		require.ErrorIs(t, err, apperr.ErrReconcile)
	})

	t.Run("update failure", func(t *testing.T) {
		users := &fakeUserRepo{users: user.Users{{ID: 1, Email: "a@b.com"}}, updateErr: errors.New("deadlock")}
		_, err := NewReconcileService(zap.NewNop(), users, &fakeHistoryRepo{}, &fakePublisher{}, newTestCounter(), "Bread").
			Reconcile(ctx, "a@b.com", res, upload.PublicAssetRef{})
		require.ErrorIs(t, err, apperr.ErrReconcile)
	})

	t.Run("row vanished", func(t *testing.T) {
		users := &fakeUserRepo{users: user.Users{{ID: 1, Email: "a@b.com"}}, vanish: true}
		_, err := NewReconcileService(zap.NewNop(), users, &fakeHistoryRepo{}, &fakePublisher{}, newTestCounter(), "Bread").
			Reconcile(ctx, "a@b.com", res, upload.PublicAssetRef{})
		require.ErrorIs(t, err, apperr.ErrReconcile)
	})
}

func TestReconcileService_HistoryFailureIsNotFatal(t *testing.T) {
	counter := newTestCounter()
	users := &fakeUserRepo{users: user.Users{{ID: 1, Email: "a@b.com"}}}

	got, err := NewReconcileService(zap.NewNop(), users, &fakeHistoryRepo{err: errors.New("disk full")},
		&fakePublisher{}, counter, "Bread").
		Reconcile(context.Background(), "a@b.com", analysis.Result{ExtractedDate: "2025-01-01"}, upload.PublicAssetRef{})

	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", *got.ExpiryDate)
	assert.Equal(t, float64(1), counterValue(counter, metrics.AnalysisHistoryFailed))
}
