package model

import "time"

// 処理済みwebhookイベント。payment_idで重複配信をはじく。
type WebhookEvent struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID      string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"payment_id"`
	EventType      string    `gorm:"type:varchar(64);not null;index" json:"event_type"`
	GatewayOrderID string    `gorm:"type:varchar(64);index" json:"gateway_order_id"`
	OrderFound     bool      `gorm:"not null;default:false" json:"order_found"`
	ProcessedAt    time.Time `gorm:"not null" json:"processed_at"`
}
