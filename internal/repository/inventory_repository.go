package repository

import (
	"context"
	"fmt"

	"ceethaluxe/internal/domain/model"
)

// 減算トランザクション内で在庫不足を検出したときのエラー。
// どの商品で失敗したかを持つ。
type InsufficientStockError struct {
	ProductID int64
	Name      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.Name)
}

type InventoryRepository interface {
	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセルなど）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	// 減算記録（注文IDで一意。二重減算の検出に使う）
	CreateDeduction(ctx context.Context, d model.StockDeduction) error
	DeductionExists(ctx context.Context, orderID int64) (bool, error)
}
