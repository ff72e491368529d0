package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) FindVariant(ctx context.Context, variantID int64) (model.Variant, error) {
	var v model.Variant
	if err := r.db.WithContext(ctx).First(&v, variantID).Error; err != nil {
		return model.Variant{}, translateErr(err)
	}
	return v, nil
}

// colorが空ならサイズだけで探す
func (r *InventoryGormRepository) FindVariantBySize(ctx context.Context, productID int64, size string, color string) (model.Variant, error) {
	q := r.db.WithContext(ctx).Where("product_id = ? AND size = ?", productID, size)
	if color != "" {
		q = q.Where("color = ?", color)
	}

	var v model.Variant
	if err := q.Order("stock desc").First(&v).Error; err != nil {
		return model.Variant{}, translateErr(err)
	}
	return v, nil
}

func (r *InventoryGormRepository) CreateVariants(ctx context.Context, productID int64, variants []model.Variant) error {
	if len(variants) == 0 {
		return nil
	}
	for i := range variants {
		variants[i].ProductID = productID
	}
	if err := r.db.WithContext(ctx).Create(&variants).Error; err != nil {
		return translateErr(err)
	}
	return nil
}

// 在庫の現在値を設定
func (r *InventoryGormRepository) SetStock(ctx context.Context, variantID int64, newStock int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Variant{}).
		Where("id = ?", variantID).
		Update("stock", newStock)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 調整履歴作成
func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	if err := r.db.WithContext(ctx).Create(&adj).Error; err != nil {
		return err
	}
	return nil
}
