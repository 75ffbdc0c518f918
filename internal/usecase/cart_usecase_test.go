package usecase_test

import (
	"context"
	"testing"

	"ceethaluxe/internal/domain/model"
	repo "ceethaluxe/internal/repository"
	"ceethaluxe/internal/state"
	"ceethaluxe/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartUsecase() (*usecase.CartUsecase, *state.Store, *ProductRepoMock) {
	store := state.New(nil, state.ThemeDark, nil)
	products := &ProductRepoMock{}
	return usecase.NewCartUsecase(store, products), store, products
}

func TestCartAdd_ResolvesFromCacheFirst(t *testing.T) {
	uc, store, products := newCartUsecase()
	store.SetProducts([]model.Product{{ID: 1, Name: "Serum", Price: 750, Stock: 25}})

	out, err := uc.Add(context.Background(), 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.Count)
	assert.Equal(t, 1500.0, out.Subtotal)
	// キャッシュにあるのでDBへは行かない
	products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCartAdd_FallsBackToRepository(t *testing.T) {
	uc, _, products := newCartUsecase()
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "Serum", Price: 750, Stock: 25}, nil)

	out, err := uc.Add(context.Background(), 1, 1)

	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, "Serum", out.Items[0].Name)
	products.AssertExpectations(t)
}

func TestCartAdd_UnknownProductRejected(t *testing.T) {
	uc, _, products := newCartUsecase()
	products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.Add(context.Background(), 9, 1)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestCartAdd_StockExceededRejected(t *testing.T) {
	uc, store, _ := newCartUsecase()
	store.SetProducts([]model.Product{{ID: 1, Name: "Mixer", Price: 3200, Stock: 3}})

	_, err := uc.Add(context.Background(), 1, 2)
	assert.NoError(t, err)

	// 既存2個 + 追加2個 > 在庫3
	_, err = uc.Add(context.Background(), 1, 2)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Equal(t, "stock exceeded", he.Message)
}

func TestCartIncrease_StockCapped(t *testing.T) {
	uc, store, _ := newCartUsecase()
	store.SetProducts([]model.Product{{ID: 1, Name: "Mixer", Price: 3200, Stock: 2}})

	_, err := uc.Add(context.Background(), 1, 2)
	assert.NoError(t, err)

	_, err = uc.Increase(context.Background(), 1)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestCartDecrease_FloorsAtOne(t *testing.T) {
	uc, store, _ := newCartUsecase()
	store.SetProducts([]model.Product{{ID: 1, Name: "Serum", Price: 750, Stock: 25}})

	_, err := uc.Add(context.Background(), 1, 1)
	assert.NoError(t, err)

	out, err := uc.Decrease(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Items[0].Quantity)
}

func TestCartDecrease_MissingLineIs404(t *testing.T) {
	uc, _, _ := newCartUsecase()

	_, err := uc.Decrease(context.Background(), 42)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestCartRemoveAndClear(t *testing.T) {
	uc, store, _ := newCartUsecase()
	store.SetProducts([]model.Product{
		{ID: 1, Name: "Serum", Price: 750, Stock: 25},
		{ID: 2, Name: "Gown", Price: 2800, Stock: 8},
	})

	_, err := uc.Add(context.Background(), 1, 1)
	assert.NoError(t, err)
	_, err = uc.Add(context.Background(), 2, 1)
	assert.NoError(t, err)

	out := uc.Remove(context.Background(), 1)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].ProductID)

	out = uc.Clear(context.Background())
	assert.Empty(t, out.Items)
	assert.Equal(t, int64(0), out.Count)
}
