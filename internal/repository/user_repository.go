package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/model"
)

// PerformerFilter — параметры каталога исполнителей.
type PerformerFilter struct {
	ServiceType *model.ServiceCode
	City        string
	MinPrice    int64
	MaxPrice    int64
	MinRating   float64
	// Показывать только свободных на эту дату (нулевое значение — без фильтра).
	FreeOn time.Time
	// rating | price_low | price_high | newest
	Sort string
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetPerformer возвращает пользователя, только если это исполнитель.
	GetPerformer(ctx context.Context, id uuid.UUID) (*model.User, error)
	SearchPerformers(ctx context.Context, filter PerformerFilter) ([]model.User, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) GetPerformer(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_type = ?", id, model.UserTypePerformer).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) SearchPerformers(ctx context.Context, f PerformerFilter) ([]model.User, error) {
	q := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("users.user_type = ?", model.UserTypePerformer)

	if f.ServiceType != nil {
		q = q.Where("users.service_type = ?", *f.ServiceType)
	}
	if f.City != "" {
		q = q.Where("LOWER(users.city) = LOWER(?)", f.City)
	}
	if f.MinRating > 0 {
		q = q.Where("users.rating >= ?", f.MinRating)
	}
	byPrice := f.Sort == "price_low" || f.Sort == "price_high"
	if f.MinPrice > 0 || f.MaxPrice > 0 || byPrice {
		q = q.Joins("JOIN tariffs ON tariffs.user_id = users.id")
		if f.MinPrice > 0 {
			q = q.Where("tariffs.price >= ?", f.MinPrice)
		}
		if f.MaxPrice > 0 {
			q = q.Where("tariffs.price <= ?", f.MaxPrice)
		}
		if !byPrice {
			q = q.Distinct("users.*")
		}
	}
	if !f.FreeOn.IsZero() {
		q = q.Where(
			"users.id NOT IN (SELECT user_id FROM busy_dates WHERE date = ?)",
			datatypes.Date(f.FreeOn),
		)
	}

	switch f.Sort {
	case "newest":
		q = q.Order("users.created_at DESC")
	case "price_low":
		q = q.Select("users.*, MIN(tariffs.price) AS min_price").
			Group("users.id").
			Order("min_price ASC")
	case "price_high":
		q = q.Select("users.*, MIN(tariffs.price) AS min_price").
			Group("users.id").
			Order("min_price DESC")
	default:
		q = q.Order("users.rating DESC")
	}

	var performers []model.User
	if err := q.Find(&performers).Error; err != nil {
		return nil, err
	}
	return performers, nil
}

func (r *GormUserRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("rating", rating).
		Error
}
