package services

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/domain/user"
	"expiry-scanner-api/internal/infrastructure/metrics"
	"expiry-scanner-api/internal/infrastructure/mq"
)

func newTestCounter() *prometheus.CounterVec {
	return metrics.NewCounterWith(prometheus.NewRegistry())
}

func counterValue(c *prometheus.CounterVec, label string) float64 {
	return testutil.ToFloat64(c.WithLabelValues(label))
}

type fakeUserRepo struct {
	users     user.Users
	lookupErr error
	updateErr error
	createErr error
	vanish    bool
	updated   []user.User
	created   []user.User
	touched   []user.UUID
	gotLimit  int
	nextID    user.ID
}

func (f *fakeUserRepo) FetchUserByID(_ context.Context, uuid user.UUID) (*user.User, error) {
	for _, u := range f.users {
		if u.UUID == uuid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FetchUsersByEmail(_ context.Context, email string, limit int) (user.Users, error) {
	f.gotLimit = limit
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	out := user.Users{}
	for _, u := range f.users {
		if u.Email == email && len(out) < limit {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CreateUser(_ context.Context, req user.User) (*user.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	req.ID = f.nextID
	req.UUID = user.UUID{byte(f.nextID)}
	req.IsActive = true
	f.created = append(f.created, req)
	f.users = append(f.users, &req)
	return &req, nil
}

func (f *fakeUserRepo) UpdateAnalysis(_ context.Context, req user.User) (*user.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.vanish {
		return nil, nil
	}
	f.updated = append(f.updated, req)
	return &req, nil
}

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, uuid user.UUID) error {
	f.touched = append(f.touched, uuid)
	return nil
}

type fakeHistoryRepo struct {
	err     error
	records []analysis.Record
}

func (f *fakeHistoryRepo) CreateRecord(_ context.Context, req *analysis.Record) (*analysis.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.records = append(f.records, *req)
	return req, nil
}

func (f *fakeHistoryRepo) FetchRecords(_ context.Context, userID uint64, _ int) (analysis.Records, error) {
	out := analysis.Records{}
	for i := range f.records {
		if f.records[i].UserID == userID {
			out = append(out, &f.records[i])
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (f *fakePublisher) Publish(e mq.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return true
}
