package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"ceethaluxe/internal/domain/model"
	"ceethaluxe/internal/infra/blob"
	repo "ceethaluxe/internal/repository"

	"gorm.io/datatypes"
)

type AdminProductUsecase struct {
	productRepo repo.ProductRepository
	images      blob.ImageStore
}

func NewAdminProductUsecase(productRepo repo.ProductRepository, images blob.ImageStore) *AdminProductUsecase {
	return &AdminProductUsecase{
		productRepo: productRepo,
		images:      images,
	}
}

type SaveProductInput struct {
	Name        string
	Category    string
	Price       float64
	Stock       int64
	Description string
	Images      []string
}

// 商品の作成・更新。idがnilなら新規。
func (u *AdminProductUsecase) Save(ctx context.Context, id *int64, in SaveProductInput) (model.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "category required")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	p := model.Product{
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Stock:       in.Stock,
		Description: in.Description,
		Images:      datatypes.NewJSONSlice(in.Images),
	}

	if id == nil {
		created, err := u.productRepo.Create(ctx, p)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "failed to save product")
		}
		return created, nil
	}

	p.ID = *id
	if err := u.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "failed to save product")
	}

	updated, err := u.productRepo.FindByID(ctx, *id)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "failed to save product")
	}
	return updated, nil
}

func (u *AdminProductUsecase) Delete(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.productRepo.Delete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "failed to delete product")
	}
	return nil
}

// 画像アップロード。保存先のURLを返す。
func (u *AdminProductUsecase) UploadImage(ctx context.Context, filename string, size int64, contentType string, r io.Reader) (string, error) {
	if u.images == nil {
		return "", NewHTTPError(http.StatusServiceUnavailable, "image storage not configured")
	}
	if size <= 0 {
		return "", NewHTTPError(http.StatusBadRequest, "empty file")
	}

	name := filepath.Base(filename)
	objectName := fmt.Sprintf("products/%d_%s", time.Now().UnixMilli(), name)

	url, err := u.images.Upload(ctx, objectName, r, size, contentType)
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "image upload failed")
	}
	return url, nil
}

// デモカタログ投入
func (u *AdminProductUsecase) Seed(ctx context.Context) error {
	seeds := []SaveProductInput{
		{
			Name:        "Lumière Gold Chandelier",
			Category:    "equipment",
			Price:       4500.00,
			Stock:       5,
			Description: "An exquisite gold-plated chandelier for elite interiors.",
			Images:      []string{"https://images.unsplash.com/photo-1543248939-ff40856f65d4?auto=format&fit=crop&w=800&q=80"},
		},
		{
			Name:        "Silk Enigma Evening Gown",
			Category:    "fashion",
			Price:       2800.00,
			Stock:       8,
			Description: "Hand-stitched silk gown from the 2026 Parisian collection.",
			Images:      []string{"https://images.unsplash.com/photo-1539109136881-3be0616acf4b?auto=format&fit=crop&w=800&q=80"},
		},
		{
			Name:        "Ethereal Glow Serum",
			Category:    "beauty",
			Price:       750.00,
			Stock:       25,
			Description: "Advanced hydration formula for a timeless complexion.",
			Images:      []string{"https://images.unsplash.com/photo-1522335789203-aabd1fc54bc9?auto=format&fit=crop&w=800&q=80"},
		},
		{
			Name:        "Aura Noise-Canceling Headphones",
			Category:    "electronics",
			Price:       1200.00,
			Stock:       12,
			Description: "Pure sound meets premium leather design.",
			Images:      []string{"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?auto=format&fit=crop&w=800&q=80"},
		},
		{
			Name:        "Zenith Precision Mixer",
			Category:    "equipment",
			Price:       3200.00,
			Stock:       3,
			Description: "Professional grade equipment for high-end bakeries.",
			Images:      []string{"https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?auto=format&fit=crop&w=800&q=80"},
		},
	}

	for _, s := range seeds {
		if _, err := u.Save(ctx, nil, s); err != nil {
			return err
		}
	}
	return nil
}
