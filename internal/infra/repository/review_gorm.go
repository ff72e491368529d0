package repository

import (
	"context"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

// 新しい順
func (r *ReviewGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc").Order("id desc").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewGormRepository) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	if err := r.db.WithContext(ctx).Create(&rv).Error; err != nil {
		return model.Review{}, translateErr(err)
	}
	return rv, nil
}

type SizeChartGormRepository struct {
	db *gorm.DB
}

func NewSizeChartGormRepository(db *gorm.DB) *SizeChartGormRepository {
	return &SizeChartGormRepository{db: db}
}

func (r *SizeChartGormRepository) FindByCategory(ctx context.Context, category model.Category) (model.SizeChart, error) {
	var sc model.SizeChart
	if err := r.db.WithContext(ctx).Where("category = ?", category).First(&sc).Error; err != nil {
		return model.SizeChart{}, translateErr(err)
	}
	return sc, nil
}

// categoryが同じなら上書き
func (r *SizeChartGormRepository) Upsert(ctx context.Context, chart model.SizeChart) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"unit", "size_rows", "updated_at"}),
	}).Create(&chart).Error
}
