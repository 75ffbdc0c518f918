package model

import (
	"time"

	"gorm.io/datatypes"
)

type Product struct {
	ID          int64                       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string                      `gorm:"type:varchar(255);not null" json:"name"`
	Category    string                      `gorm:"type:varchar(100);not null;index" json:"category"`
	Price       float64                     `gorm:"not null" json:"price"`
	Stock       int64                       `gorm:"not null" json:"stock"`
	Description string                      `gorm:"type:text" json:"description"`
	Images      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"images"`
	CreatedAt   time.Time                   `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 先頭画像（無ければ空文字）
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
