package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"expiry-scanner-api/internal/domain/user"
	"expiry-scanner-api/internal/infrastructure/db/postgres"
)

var ErrEmailAlreadyExists = errors.New("user with this email already exists")

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(
		&u.ID,
		&u.UUID,
		&u.Email,
		&u.PasswordHash,
		&u.PhoneNumber,
		&u.IsActive,

		&u.CreatedAt,
		&u.LastLogin,
		&u.UpdatedAt,

		&u.ExpiryDate,
		&u.ProductName,
		&u.LastAnalyzedAt,
		&u.ImageURL,
	)
}

func (r *Repository) FetchUserByID(ctx context.Context, uuid user.UUID) (*user.User, error) {
	u := new(User)
	if err := scanUser(r.db.QueryRow(ctx, SelectUserByID, uuid.String()), u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) FetchUsersByEmail(ctx context.Context, email string, limit int) (user.Users, error) {
	rows, err := r.db.Query(ctx, SelectUsersByEmail, email, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	us := Users{}
	for rows.Next() {
		u := new(User)
		if err = scanUser(rows, u); err != nil {
			return nil, err
		}
		us = append(us, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&us), nil
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	u := new(User)

	err := scanUser(r.db.QueryRow(
		ctx,
		InsertUser,
		req.Email, req.PasswordHash, req.PhoneNumber,
	), u)
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

// UpdateAnalysis writes only the analysis columns of req; every other
// column keeps its stored value.
func (r *Repository) UpdateAnalysis(ctx context.Context, req user.User) (*user.User, error) {
	u := new(User)

	err := scanUser(r.db.QueryRow(ctx, UpdateUserAnalysisByUUID,
		req.ExpiryDate, req.ProductName, req.LastAnalyzedAt, req.ImageURL, req.UUID.String(),
	), u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) TouchLastLogin(ctx context.Context, uuid user.UUID) error {
	_, err := r.db.Exec(ctx, UpdateLastLoginByUUID, uuid.String())
	return err
}
