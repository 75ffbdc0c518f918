package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ceethaluxe/internal/domain/model"
	repo "ceethaluxe/internal/repository"
	"ceethaluxe/internal/state"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	store       *state.Store
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, store *state.Store) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		store:       store,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Category string
	Q        string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int             `json:"total"`
}

// 一覧取得。検索語があれば全件取得して部分一致で絞る
// （全文検索はやらない。本文どおりの素朴なフィルタ）。
// 取得した一覧はそのまま商品キャッシュへ丸ごと差し替える。
func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	var (
		items []model.Product
		err   error
	)

	switch {
	case in.Q != "":
		items, err = u.productRepo.ListAll(ctx)
		if err == nil {
			term := strings.ToLower(in.Q)
			filtered := make([]model.Product, 0, len(items))
			for _, p := range items {
				if strings.Contains(strings.ToLower(p.Name), term) {
					filtered = append(filtered, p)
				}
			}
			items = filtered
		}
	case in.Category != "":
		items, err = u.productRepo.ListByCategory(ctx, in.Category)
	default:
		items, err = u.productRepo.ListAll(ctx)
	}

	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to load products")
	}

	// ページ側のクリック処理がIDから商品を引けるようにキャッシュする
	u.store.SetProducts(items)

	return ProductListOutput{Items: items, Total: len(items)}, nil
}

func (u *ProductUsecase) Detail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "failed to load product")
	}

	return p, nil
}
