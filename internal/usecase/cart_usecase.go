package usecase

import (
	"context"
	"errors"
	"net/http"

	"ceethaluxe/internal/domain/model"
	repo "ceethaluxe/internal/repository"
	"ceethaluxe/internal/state"
)

// CartUsecase はカート操作のページ側ロジック。
// カートの実体はStoreが持つ。ここでやるのは商品解決と
// 在庫の目安チェックだけ（確定時の在庫の正はDeductStock側）。
type CartUsecase struct {
	store       *state.Store
	productRepo repo.ProductRepository
}

func NewCartUsecase(store *state.Store, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{
		store:       store,
		productRepo: productRepo,
	}
}

type CartOutput struct {
	Items    []state.CartLine `json:"items"`
	Count    int64            `json:"count"`
	Subtotal float64          `json:"subtotal"`
}

func (u *CartUsecase) Get(ctx context.Context) CartOutput {
	return u.buildOutput()
}

// カートに追加（同一商品は数量加算）。
// 商品はまずキャッシュから引き、無ければDBへ。
func (u *CartUsecase) Add(ctx context.Context, productID int64, quantity int64) (CartOutput, error) {
	if productID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if quantity < 1 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	p, err := u.resolveProduct(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to load product")
	}

	// 目安の在庫チェック。最後にフェッチした値なので外れることはある。
	var existing int64
	for _, line := range u.store.Get().Cart {
		if line.ProductID == productID {
			existing = line.Quantity
			break
		}
	}
	if existing+quantity > p.Stock {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}

	u.store.AddToCart(p, quantity)
	return u.buildOutput(), nil
}

// 数量＋1。在庫の目安を超えるなら弾く。
func (u *CartUsecase) Increase(ctx context.Context, productID int64) (CartOutput, error) {
	lines := u.store.Get().Cart

	idx := -1
	for i, line := range lines {
		if line.ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	// 在庫の目安チェックはベストエフォート。引けなければ通す。
	if p, err := u.resolveProduct(ctx, productID); err == nil {
		if lines[idx].Quantity+1 > p.Stock {
			return CartOutput{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
		}
	}

	lines[idx].Quantity++
	u.store.Set(state.Partial{Cart: &lines})
	return u.buildOutput(), nil
}

// 数量−1。1より下には落とさない（削除は別操作）。
func (u *CartUsecase) Decrease(ctx context.Context, productID int64) (CartOutput, error) {
	lines := u.store.Get().Cart

	idx := -1
	for i, line := range lines {
		if line.ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if lines[idx].Quantity > 1 {
		lines[idx].Quantity--
		u.store.Set(state.Partial{Cart: &lines})
	}
	return u.buildOutput(), nil
}

// 明細削除。無くてもエラーにしない。
func (u *CartUsecase) Remove(ctx context.Context, productID int64) CartOutput {
	u.store.RemoveFromCart(productID)
	return u.buildOutput()
}

func (u *CartUsecase) Clear(ctx context.Context) CartOutput {
	u.store.ClearCart()
	return u.buildOutput()
}

func (u *CartUsecase) resolveProduct(ctx context.Context, productID int64) (model.Product, error) {
	for _, p := range u.store.Get().Products {
		if p.ID == productID {
			return p, nil
		}
	}
	return u.productRepo.FindByID(ctx, productID)
}

func (u *CartUsecase) buildOutput() CartOutput {
	s := u.store.Get()
	return CartOutput{
		Items:    s.Cart,
		Count:    s.CartCount(),
		Subtotal: s.CartSubtotal(),
	}
}
