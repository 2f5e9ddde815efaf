package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		ID           uint64
		UUID         uuid.UUID
		Email        string
		PasswordHash *string
		PhoneNumber  *string
		IsActive     bool

		CreatedAt time.Time
		LastLogin time.Time
		UpdatedAt time.Time

		ExpiryDate     *string
		ProductName    *string
		LastAnalyzedAt *time.Time
		ImageURL       *string
	}
	Users []*User
)
