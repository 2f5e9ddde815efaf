package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "expiry-scanner-api/internal/domain/analysis"
)

var columns = []string{"id", "uuid", "user_id", "image_url", "extracted_date", "product_name", "created_at"}

func TestRepository_CreateRecord(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	at := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(InsertRecord).
		WithArgs(uint64(7), "https://cdn/x.jpg", "2025-03-01", "Britannia Bread").
		WillReturnRows(pgxmock.NewRows(columns).AddRow(uint64(1), id, uint64(7), "https://cdn/x.jpg", "2025-03-01", "Britannia Bread", at))

	rec, err := NewRepository(mock).CreateRecord(context.Background(), &domain.Record{
		UserID:        7,
		ImageURL:      "https://cdn/x.jpg",
		ExtractedDate: "2025-03-01",
		ProductName:   "Britannia Bread",
	})
	require.NoError(t, err)
	assert.Equal(t, id, rec.UUID)
	assert.Equal(t, at, rec.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FetchRecords(t *testing.T) {
	tests := []struct {
		name    string
		rows    *pgxmock.Rows
		qErr    error
		wantLen int
	}{
		{
			name:    "empty",
			rows:    pgxmock.NewRows(columns),
			wantLen: 0,
		},
		{
			name: "two records",
			rows: pgxmock.NewRows(columns).
				AddRow(uint64(2), uuid.New(), uint64(7), "https://cdn/b.jpg", "2025-04-01", "Britannia Bread", time.Now()).
				AddRow(uint64(1), uuid.New(), uint64(7), "https://cdn/a.jpg", "2025-03-01", "Britannia Bread", time.Now()),
			wantLen: 2,
		},
		{
			name: "query error",
			qErr: errors.New("timeout"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
			require.NoError(t, err)
			defer mock.Close()

			exp := mock.ExpectQuery(SelectRecords).WithArgs(uint64(7), 1)
			if tt.qErr != nil {
				exp.WillReturnError(tt.qErr)
			} else {
				exp.WillReturnRows(tt.rows)
			}

			rs, err := NewRepository(mock).FetchRecords(context.Background(), 7, 1)
			if tt.qErr != nil {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, rs, tt.wantLen)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
