package usecase_test

import (
	"context"
	"strings"
	"testing"

	"ceethaluxe/internal/domain/model"
	repo "ceethaluxe/internal/repository"
	"ceethaluxe/internal/state"
	"ceethaluxe/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newProductUsecase() (*usecase.ProductUsecase, *state.Store, *ProductRepoMock) {
	store := state.New(nil, state.ThemeDark, nil)
	products := &ProductRepoMock{}
	return usecase.NewProductUsecase(products, store), store, products
}

func catalog() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Lumière Gold Chandelier", Category: "equipment"},
		{ID: 2, Name: "Silk Enigma Evening Gown", Category: "fashion"},
		{ID: 3, Name: "Ethereal Glow Serum", Category: "beauty"},
	}
}

func TestProductList_All(t *testing.T) {
	uc, store, products := newProductUsecase()
	products.On("ListAll", mock.Anything).Return(catalog(), nil)

	out, err := uc.List(context.Background(), usecase.ListProductsInput{})

	assert.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	// 取得結果は商品キャッシュへ丸ごと入る
	assert.Len(t, store.Get().Products, 3)
}

func TestProductList_ByCategory(t *testing.T) {
	uc, _, products := newProductUsecase()
	products.On("ListByCategory", mock.Anything, "fashion").Return(catalog()[1:2], nil)

	out, err := uc.List(context.Background(), usecase.ListProductsInput{Category: "fashion"})

	assert.NoError(t, err)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "Silk Enigma Evening Gown", out.Items[0].Name)
}

func TestProductList_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	uc, store, products := newProductUsecase()
	products.On("ListAll", mock.Anything).Return(catalog(), nil)

	out, err := uc.List(context.Background(), usecase.ListProductsInput{Q: "GLOW"})

	assert.NoError(t, err)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "Ethereal Glow Serum", out.Items[0].Name)
	// 絞り込み後の一覧がキャッシュされる
	assert.Len(t, store.Get().Products, 1)
}

func TestProductList_SearchTermTooLong(t *testing.T) {
	uc, _, _ := newProductUsecase()

	_, err := uc.List(context.Background(), usecase.ListProductsInput{Q: strings.Repeat("a", 101)})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestProductDetail_NotFound(t *testing.T) {
	uc, _, products := newProductUsecase()
	products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.Detail(context.Background(), 9)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestProductDetail_OK(t *testing.T) {
	uc, _, products := newProductUsecase()
	products.On("FindByID", mock.Anything, int64(3)).Return(catalog()[2], nil)

	p, err := uc.Detail(context.Background(), 3)

	assert.NoError(t, err)
	assert.Equal(t, "Ethereal Glow Serum", p.Name)
}
