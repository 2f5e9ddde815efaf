package analysis

import (
	"context"

	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) analysis.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchRecords(ctx context.Context, userID uint64, page int) (analysis.Records, error) {
	rows, err := r.db.Query(ctx, SelectRecords, userID, page)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rs := Records{}
	for rows.Next() {
		rec := new(Record)

		if err = rows.Scan(
			&rec.ID,
			&rec.UUID,
			&rec.UserID,

			&rec.ImageURL,
			&rec.ExtractedDate,
			&rec.ProductName,

			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}

		rs = append(rs, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&rs), nil
}

func (r *Repository) CreateRecord(ctx context.Context, req *analysis.Record) (*analysis.Record, error) {
	rec := new(Record)

	err := r.db.QueryRow(
		ctx,
		InsertRecord,
		req.UserID, req.ImageURL, req.ExtractedDate, req.ProductName,
	).Scan(
		&rec.ID,
		&rec.UUID,
		&rec.UserID,

		&rec.ImageURL,
		&rec.ExtractedDate,
		&rec.ProductName,

		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return fromDBModel(rec), nil
}
