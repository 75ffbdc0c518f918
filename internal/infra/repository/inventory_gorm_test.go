package repository_test

import (
	"context"
	"testing"

	"ceethaluxe/internal/domain/model"
	infraRepo "ceethaluxe/internal/infra/repository"
	repo "ceethaluxe/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// 実トランザクションでの減算検証。DBはインメモリのsqlite。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.Product{}, &model.StockDeduction{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int64) model.Product {
	t.Helper()
	p, err := infraRepo.NewProductGormRepository(db).Create(context.Background(), model.Product{
		Name:     name,
		Category: "equipment",
		Price:    100,
		Stock:    stock,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func stockOf(t *testing.T, db *gorm.DB, productID int64) int64 {
	t.Helper()
	p, err := infraRepo.NewProductGormRepository(db).FindByID(context.Background(), productID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	return p.Stock
}

func TestDecreaseStockIfEnough_NeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Mixer", 5)
	inv := infraRepo.NewInventoryGormRepository(db)

	ok, err := inv.DecreaseStockIfEnough(context.Background(), p.ID, 3)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), stockOf(t, db, p.ID))

	// 残り2に対して3は引けない。在庫は減らない。
	ok, err = inv.DecreaseStockIfEnough(context.Background(), p.ID, 3)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(2), stockOf(t, db, p.ID))
}

func TestWithinTx_RollsBackPartialDeduction(t *testing.T) {
	db := newTestDB(t)
	p1 := seedProduct(t, db, "Serum", 5)
	p2 := seedProduct(t, db, "Gown", 1)
	tx := infraRepo.NewTxManagerGorm(db)

	err := tx.WithinTx(context.Background(), func(r repo.TxRepos) error {
		ok, err := r.Inventory().DecreaseStockIfEnough(context.Background(), p1.ID, 2)
		if err != nil {
			return err
		}
		assert.True(t, ok)

		ok, err = r.Inventory().DecreaseStockIfEnough(context.Background(), p2.ID, 3)
		if err != nil {
			return err
		}
		if !ok {
			return &repo.InsufficientStockError{ProductID: p2.ID, Name: "Gown"}
		}
		return nil
	})

	var insufficient *repo.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)

	// 先に成功していた減算ごとロールバックされる
	assert.Equal(t, int64(5), stockOf(t, db, p1.ID))
	assert.Equal(t, int64(1), stockOf(t, db, p2.ID))
}

func TestWithinTx_CommitKeepsAllDeductions(t *testing.T) {
	db := newTestDB(t)
	p1 := seedProduct(t, db, "Serum", 5)
	p2 := seedProduct(t, db, "Gown", 4)
	tx := infraRepo.NewTxManagerGorm(db)

	err := tx.WithinTx(context.Background(), func(r repo.TxRepos) error {
		for _, target := range []struct {
			id  int64
			qty int64
		}{{p1.ID, 2}, {p2.ID, 3}} {
			ok, err := r.Inventory().DecreaseStockIfEnough(context.Background(), target.id, target.qty)
			if err != nil {
				return err
			}
			assert.True(t, ok)
		}
		return r.Inventory().CreateDeduction(context.Background(), model.StockDeduction{OrderID: 42})
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), stockOf(t, db, p1.ID))
	assert.Equal(t, int64(1), stockOf(t, db, p2.ID))

	done, err := infraRepo.NewInventoryGormRepository(db).DeductionExists(context.Background(), 42)
	assert.NoError(t, err)
	assert.True(t, done)
}

func TestCreateDeduction_UniquePerOrder(t *testing.T) {
	db := newTestDB(t)
	inv := infraRepo.NewInventoryGormRepository(db)

	assert.NoError(t, inv.CreateDeduction(context.Background(), model.StockDeduction{OrderID: 7}))

	// 同じ注文の二重記録はuniqueIndexが弾く
	assert.Error(t, inv.CreateDeduction(context.Background(), model.StockDeduction{OrderID: 7}))
}

func TestIncreaseStock_RestoresCancelledOrder(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Chandelier", 5)
	inv := infraRepo.NewInventoryGormRepository(db)

	ok, err := inv.DecreaseStockIfEnough(context.Background(), p.ID, 4)
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, inv.IncreaseStock(context.Background(), p.ID, 4))
	assert.Equal(t, int64(5), stockOf(t, db, p.ID))
}
