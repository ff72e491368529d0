package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	clock  Clock
	logger *slog.Logger
}

func NewAdminOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, clock Clock, logger *slog.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders, clock: clock, logger: logger}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

type AdminOrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type AdminOrderStatsOutput struct {
	Pending     int64 `json:"pending"`
	Paid        int64 `json:"paid"`
	Failed      int64 `json:"failed"`
	Total       int64 `json:"total"`
	PaidRevenue int64 `json:"paid_revenue"`
}

// 注文一覧（新しい順）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	f.Status = strings.TrimSpace(f.Status)
	if f.Status != "" && !model.OrderStatus(f.Status).Valid() {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	f.Q = strings.TrimSpace(f.Q)
	if len(f.Q) > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	orders, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return AdminOrderListOutput{Items: orders, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// ダッシュボード上部の集計
func (u *AdminOrderUsecase) Stats(ctx context.Context) (AdminOrderStatsOutput, error) {
	s, err := u.orders.Stats(ctx)
	if err != nil {
		return AdminOrderStatsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	out := AdminOrderStatsOutput{
		Pending:     s.Counts[model.OrderStatusPending],
		Paid:        s.Counts[model.OrderStatusPaid],
		Failed:      s.Counts[model.OrderStatusFailed],
		PaidRevenue: s.PaidRevenue,
	}
	out.Total = out.Pending + out.Paid + out.Failed
	return out, nil
}

// ステータス更新。paidにできるのは決済webhookだけで、paidからも動かせない
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor string, orderID int64, in AdminUpdateOrderStatusInput) error {
	if strings.TrimSpace(actor) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !newStatus.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if newStatus == model.OrderStatusPaid {
		return NewHTTPError(http.StatusBadRequest, "paid is set by payment webhook only")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}
		// 終端ガード
		if o.Status == model.OrderStatusPaid {
			return NewHTTPError(http.StatusBadRequest, "cannot change paid order")
		}

		beforeStatus := string(o.Status)
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			Actor:        actor,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   `{"status":"` + beforeStatus + `"}`,
			AfterJSON:    `{"status":"` + string(newStatus) + `"}`,
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		u.logger.Info("order status updated by admin",
			"order_id", orderID, "from", beforeStatus, "to", newStatus, "actor", actor)
		return nil
	})
}

// 期間パラメータ（handlerから使う）
func ParseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
