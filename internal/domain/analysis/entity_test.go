package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResult(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"date", "2025-03-01", "2025-03-01"},
		{"padded date", "  2025-03-01\n", "2025-03-01"},
		{"empty", "", NotFound},
		{"whitespace only", " \t\n ", NotFound},
		{"free text passes through", "Best before 03/2025", "Best before 03/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewResult(tt.in)
			assert.Equal(t, tt.want, got.ExtractedDate)
			assert.NotEmpty(t, got.ExtractedDate)
		})
	}
}
