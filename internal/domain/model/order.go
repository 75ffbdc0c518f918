package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusCodPending PaymentStatus = "cod_pending"
	PaymentStatusPaid       PaymentStatus = "paid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 注文者の連絡先・配送先
type Customer struct {
	FirstName string `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName  string `gorm:"type:varchar(100);not null" json:"lastName"`
	Email     string `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string `gorm:"type:varchar(30);not null" json:"phone"`
	Address   string `gorm:"type:varchar(255);not null" json:"address"`
	City      string `gorm:"type:varchar(100);not null" json:"city"`
}

// 注文作成後、明細は不変。変わるのはステータスと決済参照だけ。
type Order struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Number        string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"number"`
	UserID        *int64        `gorm:"index" json:"user_id,omitempty"`
	Customer      Customer      `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal      float64       `gorm:"not null" json:"subtotal"`
	DeliveryFee   float64       `gorm:"not null" json:"deliveryFee"`
	Total         float64       `gorm:"not null" json:"total"`
	PaymentMethod string        `gorm:"type:varchar(30);not null" json:"paymentMethod"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;index" json:"paymentStatus"`
	OrderStatus   OrderStatus   `gorm:"type:varchar(20);not null;index" json:"orderStatus"`
	PaystackRef   string        `gorm:"type:varchar(100)" json:"paystackRef,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt     time.Time     `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// 注文時点のスナップショット
type OrderItem struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64     `gorm:"not null;index" json:"order_id"`
	ProductID         int64     `gorm:"not null;index" json:"product_id"`
	NameSnapshot      string    `gorm:"type:varchar(255);not null" json:"name"`
	UnitPriceSnapshot float64   `gorm:"not null" json:"price"`
	ImageSnapshot     string    `gorm:"type:varchar(500)" json:"image"`
	Quantity          int64     `gorm:"not null" json:"quantity"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 在庫減算の実行記録。注文IDで一意にして二重減算を防ぐ。
type StockDeduction struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;uniqueIndex" json:"order_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
