package model

import "time"

type SizeChartRow struct {
	Size   string  `json:"size"`
	Chest  float64 `json:"chest,omitempty"`
	Waist  float64 `json:"waist,omitempty"`
	Length float64 `json:"length,omitempty"`
}

// カテゴリごとのサイズ表
type SizeChart struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Category  Category       `gorm:"type:varchar(20);not null;uniqueIndex" json:"category"`
	Unit      string         `gorm:"type:varchar(10);not null;default:'in'" json:"unit"`
	Rows      []SizeChartRow `gorm:"column:size_rows;type:text;serializer:json" json:"rows"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
