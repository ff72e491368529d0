package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type ReviewRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	Create(ctx context.Context, r model.Review) (model.Review, error)
}

type SizeChartRepository interface {
	FindByCategory(ctx context.Context, category model.Category) (model.SizeChart, error)
	Upsert(ctx context.Context, chart model.SizeChart) error
}
