package services

import (
	"context"

	"expiry-scanner-api/internal/application/ports"
	"expiry-scanner-api/internal/domain/analysis"
	domain "expiry-scanner-api/internal/domain/user"
)

type UserService struct {
	userRepository    domain.Repository
	historyRepository analysis.Repository
}

func NewUserService(
	userRepository domain.Repository,
	historyRepository analysis.Repository,
) ports.UserService {
	return &UserService{
		userRepository:    userRepository,
		historyRepository: historyRepository,
	}
}

func (us *UserService) FindUserByID(ctx context.Context, uuid domain.UUID) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByID(ctx, uuid)
	if err != nil {
		return nil, err
	}

	return u, nil
}

// FindByEmail resolves email the same way the reconciler does.
func (us *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := us.userRepository.FetchUsersByEmail(ctx, email, 1)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	return users[0], nil
}

// FindAnalyses returns nil records when the user does not exist.
func (us *UserService) FindAnalyses(ctx context.Context, uuid domain.UUID, page int) (analysis.Records, error) {
	u, err := us.userRepository.FetchUserByID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	records, err := us.historyRepository.FetchRecords(ctx, uint64(u.ID), page)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = analysis.Records{}
	}

	return records, nil
}
