package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type WebhookEventGormRepository struct {
	db *gorm.DB
}

func NewWebhookEventGormRepository(db *gorm.DB) *WebhookEventGormRepository {
	return &WebhookEventGormRepository{db: db}
}

func (r *WebhookEventGormRepository) Create(ctx context.Context, ev model.WebhookEvent) error {
	if err := r.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return translateErr(err)
	}
	return nil
}

func (r *WebhookEventGormRepository) FindByPaymentID(ctx context.Context, paymentID string) (model.WebhookEvent, error) {
	var ev model.WebhookEvent
	if err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&ev).Error; err != nil {
		return model.WebhookEvent{}, translateErr(err)
	}
	return ev, nil
}

var _ repo.WebhookEventRepository = (*WebhookEventGormRepository)(nil)
