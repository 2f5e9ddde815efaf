package analysis

import (
	"time"

	"github.com/google/uuid"
)

type (
	Record struct {
		ID     uint64
		UUID   uuid.UUID
		UserID uint64

		ImageURL      string
		ExtractedDate string
		ProductName   string

		CreatedAt time.Time
	}
	Records []*Record
)
