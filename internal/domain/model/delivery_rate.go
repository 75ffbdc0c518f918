package model

import "time"

// 都市ごとの配送料。空のときはアプリ内の既定表を使う。
type DeliveryRate struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	City      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"city"`
	Fee       float64   `gorm:"not null" json:"fee"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
