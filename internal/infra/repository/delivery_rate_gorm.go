package repository

import (
	"context"
	"errors"

	"ceethaluxe/internal/domain/model"
	repo "ceethaluxe/internal/repository"

	"gorm.io/gorm"
)

type DeliveryRateGormRepository struct {
	db *gorm.DB
}

func NewDeliveryRateGormRepository(db *gorm.DB) *DeliveryRateGormRepository {
	return &DeliveryRateGormRepository{db: db}
}

func (r *DeliveryRateGormRepository) ListAll(ctx context.Context) ([]model.DeliveryRate, error) {
	var items []model.DeliveryRate
	if err := r.db.WithContext(ctx).Order("city asc").Find(&items).Error; err != nil {
		return []model.DeliveryRate{}, err
	}
	return items, nil
}

func (r *DeliveryRateGormRepository) FindByCity(ctx context.Context, city string) (model.DeliveryRate, error) {
	var rate model.DeliveryRate
	err := r.db.WithContext(ctx).Where("city = ?", city).First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DeliveryRate{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DeliveryRate{}, err
	}
	return rate, nil
}
