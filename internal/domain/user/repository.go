package user

import (
	"context"
)

type Repository interface {
	FetchUserByID(ctx context.Context, uuid UUID) (*User, error)
	// FetchUsersByEmail returns at most limit users with exactly this email,
	// ordered by internal id.
	FetchUsersByEmail(ctx context.Context, email string, limit int) (Users, error)
	CreateUser(ctx context.Context, req User) (*User, error)
	UpdateAnalysis(ctx context.Context, req User) (*User, error)
	TouchLastLogin(ctx context.Context, uuid UUID) error
}
