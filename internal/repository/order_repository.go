package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/model"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// GetWithDetails подгружает подтверждённых исполнителей и отклики.
	GetWithDetails(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error)
	// ListAvailableForPerformer — открытые заявки с незанятым слотом
	// под услугу исполнителя, на которые он ещё не откликался.
	ListAvailableForPerformer(ctx context.Context, performerID uuid.UUID, code model.ServiceCode) ([]model.Order, error)
	ListActiveByPerformer(ctx context.Context, performerID uuid.UUID) ([]model.Order, error)
}

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Selected").
		Preload("Responses").
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) ListAvailableForPerformer(ctx context.Context, performerID uuid.UUID, code model.ServiceCode) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("order_type = ? AND status = ?", model.OrderTypeRequest, model.OrderStatusNew).
		Where("id NOT IN (SELECT order_id FROM order_responses WHERE performer_id = ?)", performerID).
		Where("id NOT IN (SELECT order_id FROM selected_performers WHERE service_code = ?)", code).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	// Фильтр по запрошенной услуге: JSON-список услуг разбирается на
	// стороне приложения, диалекты хранят его по-разному.
	filtered := orders[:0]
	for i := range orders {
		if orders[i].HasService(code) {
			filtered = append(filtered, orders[i])
		}
	}
	return filtered, nil
}

func (r *GormOrderRepository) ListActiveByPerformer(ctx context.Context, performerID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("status IN ?", []model.OrderStatus{model.OrderStatusNew, model.OrderStatusInProgress}).
		Where(
			"performer_id = ? OR id IN (SELECT order_id FROM selected_performers WHERE performer_id = ?)",
			performerID, performerID,
		).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
