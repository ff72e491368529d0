package model

import "time"

type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	Author    string    `gorm:"type:varchar(100)" json:"author"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
