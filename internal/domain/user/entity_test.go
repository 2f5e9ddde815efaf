package user

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUser_MergeKeepsUnrelatedFields(t *testing.T) {
	phone := "+33612345678"
	hash := "$2a$10$hash"
	oldDate := "2024-01-01"
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	u := User{
		ID:           7,
		UUID:         uuid.New(),
		Email:        "jane@example.com",
		PasswordHash: &hash,
		PhoneNumber:  &phone,
		IsActive:     true,
		CreatedAt:    created,
		LastLogin:    created.Add(time.Hour),
		ExpiryDate:   &oldDate,
	}
	at := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

	got := u.Merge(AnalysisPatch{
		ExpiryDate:     "2025-03-01",
		ProductName:    "Britannia Bread",
		LastAnalyzedAt: at,
		ImageURL:       "https://cdn.example.com/uploads/1-a.jpg",
	})

	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.UUID, got.UUID)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
	assert.Equal(t, u.PhoneNumber, got.PhoneNumber)
	assert.Equal(t, u.IsActive, got.IsActive)
	assert.Equal(t, u.CreatedAt, got.CreatedAt)
	assert.Equal(t, u.LastLogin, got.LastLogin)

	assert.Equal(t, "2025-03-01", *got.ExpiryDate)
	assert.Equal(t, "Britannia Bread", *got.ProductName)
	assert.Equal(t, at, *got.LastAnalyzedAt)
	assert.Equal(t, "https://cdn.example.com/uploads/1-a.jpg", *got.ImageURL)

	// the source value is untouched
	assert.Equal(t, "2024-01-01", *u.ExpiryDate)
}
