package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/model"
)

type TariffRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Tariff, error)
	// GetOwned возвращает тариф, только если он принадлежит исполнителю.
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*model.Tariff, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Tariff, error)
	Save(ctx context.Context, tariff *model.Tariff) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type GormTariffRepository struct {
	db *gorm.DB
}

func NewGormTariffRepository(db *gorm.DB) *GormTariffRepository {
	return &GormTariffRepository{db: db}
}

func (r *GormTariffRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tariff, error) {
	var t model.Tariff
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTariffRepository) GetOwned(ctx context.Context, id, userID uuid.UUID) (*model.Tariff, error) {
	var t model.Tariff
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTariffRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Tariff, error) {
	var tariffs []model.Tariff
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("price ASC").
		Find(&tariffs).Error
	if err != nil {
		return nil, err
	}
	return tariffs, nil
}

func (r *GormTariffRepository) Save(ctx context.Context, tariff *model.Tariff) error {
	return r.db.WithContext(ctx).Save(tariff).Error
}

func (r *GormTariffRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Tariff{}).
		Error
}
