package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/model"
)

type ResponseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderResponse, error)
	ListByOrderAndService(ctx context.Context, orderID uuid.UUID, code model.ServiceCode) ([]model.OrderResponse, error)
	ListByPerformer(ctx context.Context, performerID uuid.UUID) ([]model.OrderResponse, error)
}

type GormResponseRepository struct {
	db *gorm.DB
}

func NewGormResponseRepository(db *gorm.DB) *GormResponseRepository {
	return &GormResponseRepository{db: db}
}

func (r *GormResponseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	var resp model.OrderResponse
	if err := r.db.WithContext(ctx).First(&resp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *GormResponseRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderResponse, error) {
	var responses []model.OrderResponse
	err := r.db.WithContext(ctx).
		Preload("Performer").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *GormResponseRepository) ListByOrderAndService(ctx context.Context, orderID uuid.UUID, code model.ServiceCode) ([]model.OrderResponse, error) {
	var responses []model.OrderResponse
	err := r.db.WithContext(ctx).
		Preload("Performer").
		Where("order_id = ? AND service_code = ?", orderID, code).
		Order("created_at ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *GormResponseRepository) ListByPerformer(ctx context.Context, performerID uuid.UUID) ([]model.OrderResponse, error) {
	var responses []model.OrderResponse
	err := r.db.WithContext(ctx).
		Preload("Order").
		Where("performer_id = ?", performerID).
		Order("created_at DESC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}
