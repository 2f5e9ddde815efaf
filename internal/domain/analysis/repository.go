package analysis

import (
	"context"
)

type Repository interface {
	CreateRecord(ctx context.Context, req *Record) (*Record, error)
	FetchRecords(ctx context.Context, userID uint64, page int) (Records, error)
}
