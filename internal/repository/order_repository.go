package repository

import (
	"context"

	"ceethaluxe/internal/domain/model"
)

// 注文への部分更新。nilのフィールドは触らない。
type OrderPatch struct {
	PaymentStatus *model.PaymentStatus
	OrderStatus   *model.OrderStatus
	PaystackRef   *string
}

type OrderRepository interface {
	// 明細ごと作成してIDを返す
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	// 管理者用。作成日の降順。
	ListAll(ctx context.Context) ([]model.Order, error)
	Update(ctx context.Context, orderID int64, patch OrderPatch) error
}
