package analysis

import (
	domain "expiry-scanner-api/internal/domain/analysis"
)

func fromDBModel(model *Record) *domain.Record {
	var r = &domain.Record{
		UUID:   model.UUID,
		UserID: model.UserID,

		ImageURL:      model.ImageURL,
		ExtractedDate: model.ExtractedDate,
		ProductName:   model.ProductName,

		CreatedAt: model.CreatedAt,
	}

	return r
}

func fromDBModels(models *Records) domain.Records {
	rs := make(domain.Records, len(*models))
	for idx, r := range *models {
		rs[idx] = fromDBModel(r)
	}

	return rs
}
