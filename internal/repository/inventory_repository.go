package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type InventoryRepository interface {
	FindVariant(ctx context.Context, variantID int64) (model.Variant, error)
	FindVariantBySize(ctx context.Context, productID int64, size string, color string) (model.Variant, error)
	CreateVariants(ctx context.Context, productID int64, variants []model.Variant) error

	// 在庫の現在値を設定
	SetStock(ctx context.Context, variantID int64, newStock int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
