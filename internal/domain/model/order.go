package model

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// 配送先（ordersテーブルにJSONで保存）
type ShippingAddress struct {
	Name   string `json:"name"`
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
	Phone  string `json:"phone"`
}

// 注文明細のスナップショット（JSONで保存）
type LineItem struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Quantity  int64  `json:"quantity"`
	// 単価（ルピー）
	Price  int64  `json:"price"`
	Size   string `json:"size"`
	Fabric string `json:"fabric"`
	Fit    string `json:"fit"`
}

type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//決済ゲートウェイが採番した注文ID（order_xxx）
	GatewayOrderID string `gorm:"type:varchar(64);not null;uniqueIndex" json:"gateway_order_id"`

	//ゲートウェイに渡したreceipt
	Receipt string `gorm:"type:varchar(64);not null;uniqueIndex" json:"receipt"`

	CustomerName  string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string          `gorm:"type:varchar(255)" json:"customer_email"`
	Address       ShippingAddress `gorm:"type:text;serializer:json" json:"address"`
	Items         []LineItem      `gorm:"type:text;serializer:json" json:"items"`

	//合計（パイサ）
	Amount   int64       `gorm:"not null" json:"amount"`
	Currency string      `gorm:"type:varchar(8);not null" json:"currency"`
	Status   OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//paidになったときだけ入る
	PaymentID string     `gorm:"type:varchar(64);index" json:"payment_id,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFailed:
		return true
	}
	return false
}
