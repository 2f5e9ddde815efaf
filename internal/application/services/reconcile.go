package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"expiry-scanner-api/internal/application/ports"
	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/domain/apperr"
	"expiry-scanner-api/internal/domain/upload"
	"expiry-scanner-api/internal/domain/user"
	"expiry-scanner-api/internal/infrastructure/metrics"
	"expiry-scanner-api/internal/infrastructure/mq"
)

const MsgUserNotFound = "User not found with provided email"

// duplicates are detected, not resolved: the lowest id wins
const lookupLimit = 2

type ReconcileService struct {
	logger            *zap.Logger
	userRepository    user.Repository
	historyRepository analysis.Repository
	events            ports.EventPublisher
	mCounter          *prometheus.CounterVec
	productName       string
	now               func() time.Time
}

func NewReconcileService(
	logger *zap.Logger,
	userRepository user.Repository,
	historyRepository analysis.Repository,
	events ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	productName string,
) *ReconcileService {
	return &ReconcileService{
		logger:            logger,
		userRepository:    userRepository,
		historyRepository: historyRepository,
		events:            events,
		mCounter:          mCounter,
		productName:       productName,
		now:               time.Now,
	}
}

// Reconcile merges the analysis outcome into the user registered under
// email. Only the four analysis fields change.
func (rs *ReconcileService) Reconcile(
	ctx context.Context,
	email string,
	res analysis.Result,
	ref upload.PublicAssetRef,
) (*user.User, error) {
	found, err := rs.userRepository.FetchUsersByEmail(ctx, email, lookupLimit)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrReconcile, "failed to look up user", err)
	}
	if len(found) == 0 {
		rs.mCounter.WithLabelValues(metrics.ReconcileUserNotFound).Inc()
		return nil, apperr.New(apperr.ErrNotFound, MsgUserNotFound)
	}
	if len(found) > 1 {
		rs.mCounter.WithLabelValues(metrics.DuplicateUserRecords).Inc()
		rs.logger.Warn("duplicate user records for email",
			zap.String("email", email),
			zap.String("user_uuid", found[0].UUID.String()),
		)
	}

	analyzedAt := rs.now().UTC()
	merged := found[0].Merge(user.AnalysisPatch{
		ExpiryDate:     res.ExtractedDate,
		ProductName:    rs.productName,
		LastAnalyzedAt: analyzedAt,
		ImageURL:       ref.URL,
	})

	updated, err := rs.userRepository.UpdateAnalysis(ctx, merged)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrReconcile, "failed to update user", err)
	}
	if updated == nil {
		return nil, apperr.New(apperr.ErrReconcile, "user disappeared before update")
	}

	rs.recordHistory(ctx, updated, res, ref, analyzedAt)

	rs.events.Publish(mq.NewEvent(mq.ActionExpiryAnalyzed, updated.UUID.String(), mq.AnalysisPayload{
		Email:       updated.Email,
		ExpiryDate:  res.ExtractedDate,
		ProductName: rs.productName,
		ImageURL:    ref.URL,
		AnalyzedAt:  analyzedAt,
	}))

	return updated, nil
}

// recordHistory is best effort; the user row is the source of truth.
func (rs *ReconcileService) recordHistory(
	ctx context.Context,
	u *user.User,
	res analysis.Result,
	ref upload.PublicAssetRef,
	at time.Time,
) {
	_, err := rs.historyRepository.CreateRecord(ctx, &analysis.Record{
		UserID:        uint64(u.ID),
		ImageURL:      ref.URL,
		ExtractedDate: res.ExtractedDate,
		ProductName:   rs.productName,
		CreatedAt:     at,
	})
	if err != nil {
		rs.mCounter.WithLabelValues(metrics.AnalysisHistoryFailed).Inc()
		rs.logger.Error("failed to record analysis history", zap.Error(err), zap.String("user_uuid", u.UUID.String()))
	}
}
