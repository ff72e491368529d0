package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/webhook"
)

// 決済ゲートウェイ（注文作成だけ使う）
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency string, receipt string) (string, error)
	KeyID() string
}

var (
	zipRe   = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	phoneRe = regexp.MustCompile(`^(\+91[\-\s]?)?[6-9][0-9]{9}$`)
)

const (
	maxCheckoutItems = 50
	maxItemQuantity  = 10
)

type CheckoutUsecase struct {
	orders    repo.OrderRepository
	products  repo.ProductRepository
	inventory repo.InventoryRepository
	gateway   PaymentGateway
	keySecret string
	currency  string
	idGen     IDGenerator
	logger    *slog.Logger
}

func NewCheckoutUsecase(
	orders repo.OrderRepository,
	products repo.ProductRepository,
	inventory repo.InventoryRepository,
	gateway PaymentGateway,
	keySecret string,
	currency string,
	idGen IDGenerator,
	logger *slog.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		orders:    orders,
		products:  products,
		inventory: inventory,
		gateway:   gateway,
		keySecret: keySecret,
		currency:  currency,
		idGen:     idGen,
		logger:    logger,
	}
}

type CheckoutItemInput struct {
	ProductID int64
	Quantity  int64
	Size      string
	Color     string
}

type CheckoutInput struct {
	CustomerName  string
	CustomerEmail string
	Address       model.ShippingAddress
	Items         []CheckoutItemInput
}

type CheckoutOutput struct {
	OrderID        int64            `json:"order_id"`
	GatewayOrderID string           `json:"gateway_order_id"`
	Amount         int64            `json:"amount"`
	Currency       string           `json:"currency"`
	KeyID          string           `json:"key_id"`
	Items          []model.LineItem `json:"items"`
}

// CreateOrder は価格をカタログから引き直して、ゲートウェイの注文とpendingの注文行を作る。
func (u *CheckoutUsecase) CreateOrder(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	if err := validateCheckout(&in); err != nil {
		return CheckoutOutput{}, err
	}

	items := make([]model.LineItem, 0, len(in.Items))
	var total int64

	for _, it := range in.Items {
		p, err := u.products.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.IsActive) {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		if err != nil {
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		v, err := u.inventory.FindVariantBySize(ctx, p.ID, it.Size, it.Color)
		if errors.Is(err, repo.ErrNotFound) {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid size")
		}
		if err != nil {
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if v.Stock < it.Quantity {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "out of stock")
		}

		//スナップショット（クライアントの価格は使わない）
		items = append(items, model.LineItem{
			ProductID: p.ID,
			Title:     p.Name,
			Quantity:  it.Quantity,
			Price:     p.Price,
			Size:      v.Size,
			Fabric:    p.Fabric,
			Fit:       p.Fit,
		})
		total += p.Price * it.Quantity
	}

	// ルピー -> パイサ
	amount := total * 100
	receipt := u.idGen.NewID()

	gatewayOrderID, err := u.gateway.CreateOrder(ctx, amount, u.currency, receipt)
	if err != nil {
		u.logger.Error("gateway create order failed", "receipt", receipt, "error", err)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}

	orderID, err := u.orders.Create(ctx, model.Order{
		GatewayOrderID: gatewayOrderID,
		Receipt:        receipt,
		CustomerName:   in.CustomerName,
		CustomerEmail:  in.CustomerEmail,
		Address:        in.Address,
		Items:          items,
		Amount:         amount,
		Currency:       u.currency,
		Status:         model.OrderStatusPending,
	})
	if err != nil {
		u.logger.Error("persist pending order failed", "gateway_order_id", gatewayOrderID, "error", err)
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.logger.Info("pending order created", "order_id", orderID, "gateway_order_id", gatewayOrderID, "amount", amount)

	return CheckoutOutput{
		OrderID:        orderID,
		GatewayOrderID: gatewayOrderID,
		Amount:         amount,
		Currency:       u.currency,
		KeyID:          u.gateway.KeyID(),
		Items:          items,
	}, nil
}

type ConfirmPaymentInput struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

type ConfirmPaymentOutput struct {
	Verified bool   `json:"verified"`
	Status   string `json:"status"`
}

// ConfirmPayment はcheckout完了コールバックの署名を確かめる。
// ステータスは変えない（paidにするのはwebhookだけ）。
func (u *CheckoutUsecase) ConfirmPayment(ctx context.Context, in ConfirmPaymentInput) (ConfirmPaymentOutput, error) {
	if strings.TrimSpace(in.GatewayOrderID) == "" || strings.TrimSpace(in.PaymentID) == "" {
		return ConfirmPaymentOutput{}, NewHTTPError(http.StatusBadRequest, "order_id and payment_id required")
	}
	if !webhook.VerifyPaymentSignature(in.GatewayOrderID, in.PaymentID, in.Signature, u.keySecret) {
		return ConfirmPaymentOutput{}, NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	o, err := u.orders.FindByGatewayOrderID(ctx, in.GatewayOrderID)
	if errors.Is(err, repo.ErrNotFound) {
		return ConfirmPaymentOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ConfirmPaymentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ConfirmPaymentOutput{Verified: true, Status: string(o.Status)}, nil
}

type OrderStatusOutput struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Status         string `json:"status"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

// GetOrderStatus はストア側のポーリング用。
func (u *CheckoutUsecase) GetOrderStatus(ctx context.Context, gatewayOrderID string) (OrderStatusOutput, error) {
	gatewayOrderID = strings.TrimSpace(gatewayOrderID)
	if gatewayOrderID == "" || len(gatewayOrderID) > 64 {
		return OrderStatusOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	o, err := u.orders.FindByGatewayOrderID(ctx, gatewayOrderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderStatusOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return OrderStatusOutput{
		GatewayOrderID: o.GatewayOrderID,
		Status:         string(o.Status),
		Amount:         o.Amount,
		Currency:       o.Currency,
	}, nil
}

// 入力チェック（前後の空白もここで落とす）
func validateCheckout(in *CheckoutInput) error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	a := &in.Address
	a.Name = strings.TrimSpace(a.Name)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Zip = strings.TrimSpace(a.Zip)
	a.Phone = strings.TrimSpace(a.Phone)

	if in.CustomerName == "" || len(in.CustomerName) > 255 {
		return NewHTTPError(http.StatusBadRequest, "invalid customer_name")
	}
	if in.CustomerEmail != "" && !strings.Contains(in.CustomerEmail, "@") {
		return NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if a.Street == "" || a.City == "" || a.State == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid address")
	}
	if !zipRe.MatchString(a.Zip) {
		return NewHTTPError(http.StatusBadRequest, "invalid zip")
	}
	if !phoneRe.MatchString(a.Phone) {
		return NewHTTPError(http.StatusBadRequest, "invalid phone")
	}
	if a.Name == "" {
		a.Name = in.CustomerName
	}

	if len(in.Items) == 0 {
		return NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	if len(in.Items) > maxCheckoutItems {
		return NewHTTPError(http.StatusBadRequest, "too many items")
	}
	for i := range in.Items {
		it := &in.Items[i]
		it.Size = strings.TrimSpace(it.Size)
		it.Color = strings.TrimSpace(it.Color)
		if it.ProductID <= 0 {
			return NewHTTPError(http.StatusBadRequest, "invalid product_id")
		}
		if it.Quantity < 1 || it.Quantity > maxItemQuantity {
			return NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		if it.Size == "" {
			return NewHTTPError(http.StatusBadRequest, "size required")
		}
	}
	return nil
}
