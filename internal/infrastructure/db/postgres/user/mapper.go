package user

import (
	domain "expiry-scanner-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var u = &domain.User{
		ID:           domain.ID(model.ID),
		UUID:         model.UUID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		PhoneNumber:  model.PhoneNumber,
		IsActive:     model.IsActive,

		CreatedAt: model.CreatedAt,
		LastLogin: model.LastLogin,
		UpdatedAt: model.UpdatedAt,

		ExpiryDate:     model.ExpiryDate,
		ProductName:    model.ProductName,
		LastAnalyzedAt: model.LastAnalyzedAt,
		ImageURL:       model.ImageURL,
	}

	return u
}

func fromDBModels(models *Users) domain.Users {
	us := make(domain.Users, len(*models))
	for idx, u := range *models {
		us[idx] = fromDBModel(u)
	}

	return us
}
