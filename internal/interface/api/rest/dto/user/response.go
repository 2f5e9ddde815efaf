package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		UUID           uuid.UUID  `json:"uuid"`
		Email          string     `json:"email"`
		PhoneNumber    *string    `json:"phoneNumber,omitempty"`
		IsActive       bool       `json:"isActive"`
		CreatedAt      time.Time  `json:"createdAt"`
		LastLogin      time.Time  `json:"lastLogin"`
		ExpiryDate     *string    `json:"expiryDate,omitempty"`
		ProductName    *string    `json:"productName,omitempty"`
		LastAnalyzedAt *time.Time `json:"lastAnalyzedAt,omitempty"`
		ImageURL       *string    `json:"imageUrl,omitempty"`
	}
	Analysis struct {
		UUID          uuid.UUID `json:"uuid"`
		ImageURL      string    `json:"imageUrl"`
		ExtractedDate string    `json:"extractedDate"`
		ProductName   string    `json:"productName"`
		CreatedAt     time.Time `json:"createdAt"`
	}
	Analyses     []Analysis
	ResponseData struct {
		Data Analyses `json:"data"`
	}
)
