package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/model"
)

type BusyDateRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.BusyDate, error)
	IsBusy(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error)
}

type GormBusyDateRepository struct {
	db *gorm.DB
}

func NewGormBusyDateRepository(db *gorm.DB) *GormBusyDateRepository {
	return &GormBusyDateRepository{db: db}
}

func (r *GormBusyDateRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.BusyDate, error) {
	var dates []model.BusyDate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *GormBusyDateRepository) IsBusy(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error) {
	var bd model.BusyDate
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, datatypes.Date(date)).
		First(&bd).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
