package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/calendar"
	"github.com/eventar/marketplace-core/internal/model"
	"github.com/eventar/marketplace-core/internal/repository"
)

// CatalogService — каталог исполнителей и управление тарифами.
type CatalogService struct {
	userRepo   repository.UserRepository
	tariffRepo repository.TariffRepository
}

func NewCatalogService(userRepo repository.UserRepository, tariffRepo repository.TariffRepository) *CatalogService {
	return &CatalogService{userRepo: userRepo, tariffRepo: tariffRepo}
}

// SearchPerformers — постраничный каталог по фильтрам.
func (s *CatalogService) SearchPerformers(ctx context.Context, filter repository.PerformerFilter, page, pageSize int) (calendar.Page[model.User], error) {
	performers, err := s.userRepo.SearchPerformers(ctx, filter)
	if err != nil {
		return calendar.Page[model.User]{}, err
	}
	return calendar.Paginate(performers, page, pageSize), nil
}

// ListTariffs — тарифы исполнителя по возрастанию цены.
func (s *CatalogService) ListTariffs(ctx context.Context, performerID uuid.UUID) ([]model.Tariff, error) {
	return s.tariffRepo.ListByUser(ctx, performerID)
}

// SaveTariff создаёт тариф или правит существующий. Чужой тариф
// недоступен: выборка идёт по (id, владелец).
func (s *CatalogService) SaveTariff(ctx context.Context, performerID uuid.UUID, tariffID *uuid.UUID, name string, price int64, description string) (uuid.UUID, error) {
	performer, err := s.userRepo.GetPerformer(ctx, performerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, err
	}

	var tariff *model.Tariff
	if tariffID != nil {
		tariff, err = s.tariffRepo.GetOwned(ctx, *tariffID, performer.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, ErrTariffNotFound
			}
			return uuid.Nil, err
		}
	} else {
		tariff = &model.Tariff{UserID: performer.ID}
	}

	tariff.Name = name
	tariff.Price = price
	tariff.Description = description
	if err := s.tariffRepo.Save(ctx, tariff); err != nil {
		return uuid.Nil, err
	}
	return tariff.ID, nil
}

// DeleteTariff удаляет тариф исполнителя.
func (s *CatalogService) DeleteTariff(ctx context.Context, performerID, tariffID uuid.UUID) error {
	return s.tariffRepo.Delete(ctx, tariffID, performerID)
}
