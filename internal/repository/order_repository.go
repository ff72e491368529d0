package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	//顧客名 / gateway order id / 電話番号
	Q    string
	From *time.Time
	To   *time.Time
}

// ステータスごとの件数と売上
type OrderStats struct {
	Counts      map[model.OrderStatus]int64
	PaidRevenue int64
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	// pendingのときだけpaidにする。更新できたらtrue。
	MarkPaidIfPending(ctx context.Context, orderID int64, paymentID string, paidAt time.Time) (bool, error)

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
	Stats(ctx context.Context) (OrderStats, error)
}
