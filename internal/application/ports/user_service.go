package ports

import (
	"context"

	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/domain/user"
)

type UserService interface {
	FindUserByID(ctx context.Context, uuid user.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindAnalyses(ctx context.Context, uuid user.UUID, page int) (analysis.Records, error)
}
