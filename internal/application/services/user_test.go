package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/domain/user"
)

func TestUserService_FindByEmail(t *testing.T) {
	users := &fakeUserRepo{users: user.Users{{ID: 1, UUID: user.UUID{1}, Email: "a@b.com"}}}
	us := NewUserService(users, &fakeHistoryRepo{})

	u, err := us.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, user.ID(1), u.ID)

	u, err = us.FindByEmail(context.Background(), "A@b.com")
	require.NoError(t, err)
	assert.Nil(t, u, "email match is exact")
}

func TestUserService_FindAnalyses(t *testing.T) {
	users := &fakeUserRepo{users: user.Users{{ID: 3, UUID: user.UUID{3}, Email: "a@b.com"}}}
	history := &fakeHistoryRepo{records: []analysis.Record{
		{UserID: 3, ExtractedDate: "2025-01-01"},
		{UserID: 4, ExtractedDate: "2026-01-01"},
	}}
	us := NewUserService(users, history)

	recs, err := us.FindAnalyses(context.Background(), user.UUID{3}, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2025-01-01", recs[0].ExtractedDate)

	recs, err = us.FindAnalyses(context.Background(), user.UUID{9}, 1)
	require.NoError(t, err)
	assert.Nil(t, recs)
}
