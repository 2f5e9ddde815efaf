package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	ID   uint64
	UUID = uuid.UUID
	User struct {
		ID           ID
		UUID         UUID
		Email        string
		PasswordHash *string
		PhoneNumber  *string
		IsActive     bool

		CreatedAt time.Time
		LastLogin time.Time
		UpdatedAt time.Time

		// merged by the analysis pipeline
		ExpiryDate     *string
		ProductName    *string
		LastAnalyzedAt *time.Time
		ImageURL       *string
	}
	Users []*User

	// AnalysisPatch carries the only fields the reconciler may change.
	AnalysisPatch struct {
		ExpiryDate     string
		ProductName    string
		LastAnalyzedAt time.Time
		ImageURL       string
	}
)

// Merge returns a copy of u with the patch applied. Every other field is
// carried over unchanged.
func (u User) Merge(p AnalysisPatch) User {
	out := u
	out.ExpiryDate = &p.ExpiryDate
	out.ProductName = &p.ProductName
	out.LastAnalyzedAt = &p.LastAnalyzedAt
	out.ImageURL = &p.ImageURL

	return out
}
