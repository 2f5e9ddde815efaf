package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counter results
const (
	RequestsTotal         = "app_requests_total"
	UploadTargetsIssued   = "upload_targets_issued_total"
	UploadTargetsFailed   = "upload_targets_failed_total"
	AnalysisSucceeded     = "analysis_succeeded_total"
	AnalysisFailed        = "analysis_failed_total"
	ReconcileFailed       = "reconcile_failed_total"
	ReconcileUserNotFound = "reconcile_user_not_found_total"
	DuplicateUserRecords  = "duplicate_user_records_total"
	UsersRegistered       = "user_registered_total"
	AnalysisHistoryFailed = "analysis_history_failed_total"
)

func NewCounter() *prometheus.CounterVec {
	return NewCounterWith(prometheus.DefaultRegisterer)
}

// NewCounterWith registers the counter on reg; tests pass a fresh registry.
func NewCounterWith(reg prometheus.Registerer) *prometheus.CounterVec {
	return promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expiryscanner",
			Name:      "general_counters",
		},
		[]string{"result"})
}
