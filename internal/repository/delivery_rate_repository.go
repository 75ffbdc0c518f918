package repository

import (
	"context"

	"ceethaluxe/internal/domain/model"
)

type DeliveryRateRepository interface {
	ListAll(ctx context.Context) ([]model.DeliveryRate, error)
	FindByCity(ctx context.Context, city string) (model.DeliveryRate, error)
}
