package model

import (
	"time"

	"gorm.io/gorm"
)

type Category string

const (
	CategoryShirt   Category = "shirt"
	CategoryModern  Category = "modern"
	CategoryClassic Category = "classic"
)

type Product struct {
	ID          int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string   `gorm:"type:varchar(255);not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Price       int64    `gorm:"not null" json:"price"`
	Image       string   `gorm:"type:varchar(512)" json:"image"`
	Category    Category `gorm:"type:varchar(20);not null;index" json:"category"`
	Fabric      string   `gorm:"type:varchar(50)" json:"fabric"`
	Fit         string   `gorm:"type:varchar(50)" json:"fit"`
	IsActive    bool     `gorm:"not null;default:false" json:"is_active"`

	Variants []Variant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c Category) Valid() bool {
	switch c {
	case CategoryShirt, CategoryModern, CategoryClassic:
		return true
	}
	return false
}
