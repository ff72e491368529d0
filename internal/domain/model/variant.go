package model

import "time"

// サイズ・色ごとの在庫
type Variant struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index;uniqueIndex:idx_variant_product_size_color" json:"product_id"`
	Size      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_variant_product_size_color" json:"size"`
	Color     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_variant_product_size_color" json:"color"`
	Stock     int64     `gorm:"not null;default:0" json:"stock"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
