package analysis

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Prompt is sent verbatim with every image.
	Prompt = "Find expiry date in format YYYY-MM-DD"
	// NotFound replaces an empty model answer.
	NotFound = "No expiry date found"
)

type (
	// Result is best-effort free text, usually YYYY-MM-DD. Each invocation
	// is a fresh attempt; results are never cached.
	Result struct {
		ExtractedDate string
	}

	// Record is one row of a user's analysis history.
	Record struct {
		UUID          uuid.UUID
		UserID        uint64
		ImageURL      string
		ExtractedDate string
		ProductName   string
		CreatedAt     time.Time
	}
	Records []*Record
)

// NewResult trims the raw model answer and substitutes NotFound when
// nothing is left.
func NewResult(text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{ExtractedDate: NotFound}
	}
	return Result{ExtractedDate: text}
}
