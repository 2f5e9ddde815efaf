package user

import (
	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/domain/user"
)

func ToResponseUser(uDomain user.User) User {
	var u = User{
		UUID:           uDomain.UUID,
		Email:          uDomain.Email,
		PhoneNumber:    uDomain.PhoneNumber,
		IsActive:       uDomain.IsActive,
		CreatedAt:      uDomain.CreatedAt,
		LastLogin:      uDomain.LastLogin,
		ExpiryDate:     uDomain.ExpiryDate,
		ProductName:    uDomain.ProductName,
		LastAnalyzedAt: uDomain.LastAnalyzedAt,
		ImageURL:       uDomain.ImageURL,
	}

	return u
}

func ToResponseAnalyses(rs analysis.Records) Analyses {
	out := make(Analyses, len(rs))
	for idx, r := range rs {
		out[idx] = Analysis{
			UUID:          r.UUID,
			ImageURL:      r.ImageURL,
			ExtractedDate: r.ExtractedDate,
			ProductName:   r.ProductName,
			CreatedAt:     r.CreatedAt,
		}
	}

	return out
}
