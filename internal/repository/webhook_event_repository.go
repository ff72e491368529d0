package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 処理済みイベントの記録
type WebhookEventRepository interface {
	// payment_idが既にあればErrDuplicate
	Create(ctx context.Context, ev model.WebhookEvent) error
	FindByPaymentID(ctx context.Context, paymentID string) (model.WebhookEvent, error)
}
