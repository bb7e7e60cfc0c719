package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/calendar"
	"github.com/eventar/marketplace-core/internal/model"
	"github.com/eventar/marketplace-core/internal/repository"
)

// BookingService — прямое бронирование: заказчик сам выбирает
// исполнителя, дату и тариф. Два подпотока: немедленное бронирование
// и легаси-вариант через предложение, которое исполнитель принимает
// или отклоняет.
type BookingService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	tariffRepo repository.TariffRepository
	propRepo   repository.ProposalRepository

	// Часы вынесены в поле ради тестов окна бронирования.
	now func() time.Time
}

func NewBookingService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	tariffRepo repository.TariffRepository,
	propRepo repository.ProposalRepository,
) *BookingService {
	return &BookingService{
		db:         db,
		userRepo:   userRepo,
		tariffRepo: tariffRepo,
		propRepo:   propRepo,
		now:        time.Now,
	}
}

// CreateDirectBooking — немедленное бронирование. Занятие даты и
// создание заказа выполняются одной транзакцией: при конфликте даты
// не остаётся ни заказа, ни каких-либо частичных записей.
func (s *BookingService) CreateDirectBooking(
	ctx context.Context,
	customerID, performerID uuid.UUID,
	date time.Time,
	tariffID uuid.UUID,
	details string,
) (uuid.UUID, error) {
	if err := calendar.ValidateEventDate(date, s.now()); err != nil {
		return uuid.Nil, err
	}

	performer, err := s.userRepo.GetPerformer(ctx, performerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, err
	}

	tariff, err := s.tariffRepo.GetOwned(ctx, tariffID, performerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrTariffNotFound
		}
		return uuid.Nil, err
	}

	order := model.Order{
		CustomerID:  customerID,
		PerformerID: &performer.ID,
		OrderType:   model.OrderTypeBooking,
		Status:      model.OrderStatusInProgress,
		Title:       fmt.Sprintf("Заказ на %s", calendar.DateOnly(date).Format("2006-01-02")),
		EventDate:   calendar.ToDate(date),
		City:        performer.City,
		GuestCount:  1,
		Description: details,
		Details:     details,
		BudgetMin:   tariff.Price,
		BudgetMax:   tariff.Price,
		Services:    datatypes.JSONSlice[model.ServiceCode]{},
		TariffID:    &tariff.ID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := claimBusyDate(tx, performer.ID, date, model.BusyDateSourceOrder); err != nil {
			return err
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return uuid.Nil, err
	}
	return order.ID, nil
}

// CreateProposal — предложение о бронировании без немедленного занятия
// даты. На пару (исполнитель, дата) допускается одно pending-предложение.
func (s *BookingService) CreateProposal(
	ctx context.Context,
	customerID, orderID, performerID uuid.UUID,
	date time.Time,
	tariffID uuid.UUID,
) (uuid.UUID, error) {
	if err := calendar.ValidateEventDate(date, s.now()); err != nil {
		return uuid.Nil, err
	}

	if _, err := s.userRepo.GetPerformer(ctx, performerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, err
	}
	tariff, err := s.tariffRepo.GetOwned(ctx, tariffID, performerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrTariffNotFound
		}
		return uuid.Nil, err
	}

	proposal := model.BookingProposal{
		PerformerID: performerID,
		TariffID:    tariff.ID,
		Date:        calendar.ToDate(date),
		Status:      model.ProposalStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.CustomerID != customerID {
			return ErrPermissionDenied
		}
		if order.Closed() {
			return ErrOrderClosed
		}

		proposal.OrderID = order.ID
		// Уникальность pending-пары (исполнитель, дата) держит частичный
		// индекс booking_proposals.
		if err := tx.Create(&proposal).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrProposalExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return proposal.ID, nil
}

// AcceptProposal — исполнитель принимает предложение: занимается дата,
// заказ получает исполнителя и уходит в in_progress, предложение
// помечается принятым. Всё в одной транзакции.
func (s *BookingService) AcceptProposal(ctx context.Context, proposalID, performerID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		proposal, err := lockPendingProposal(tx, proposalID, performerID)
		if err != nil {
			return err
		}

		var order model.Order
		if err := tx.First(&order, "id = ?", proposal.OrderID).Error; err != nil {
			return err
		}
		if order.Closed() {
			return ErrOrderClosed
		}

		if err := claimBusyDate(tx, performerID, time.Time(proposal.Date), model.BusyDateSourceOrder); err != nil {
			return err
		}

		err = tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{
				"performer_id": performerID,
				"status":       model.OrderStatusInProgress,
			}).Error
		if err != nil {
			return err
		}

		return resolveProposal(tx, proposal.ID, model.ProposalStatusAccepted)
	})
}

// RejectProposal переводит предложение в rejected без влияния на календарь.
func (s *BookingService) RejectProposal(ctx context.Context, proposalID, performerID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		proposal, err := lockPendingProposal(tx, proposalID, performerID)
		if err != nil {
			return err
		}
		return resolveProposal(tx, proposal.ID, model.ProposalStatusRejected)
	})
}

// ListPendingProposals — входящие предложения исполнителя.
func (s *BookingService) ListPendingProposals(ctx context.Context, performerID uuid.UUID) ([]model.BookingProposal, error) {
	return s.propRepo.ListPendingByPerformer(ctx, performerID)
}

// lockPendingProposal перечитывает предложение внутри транзакции.
// Чужое, отсутствующее или уже разрешённое — ErrProposalNotPending.
func lockPendingProposal(tx *gorm.DB, proposalID, performerID uuid.UUID) (*model.BookingProposal, error) {
	var p model.BookingProposal
	if err := tx.First(&p, "id = ?", proposalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotPending
		}
		return nil, err
	}
	if p.PerformerID != performerID || p.Status != model.ProposalStatusPending {
		return nil, ErrProposalNotPending
	}
	return &p, nil
}

// resolveProposal переводит предложение из pending в терминальный статус.
// Условие по статусу в WHERE закрывает гонку двух одновременных решений:
// второе получает ноль затронутых строк и ErrProposalNotPending.
func resolveProposal(tx *gorm.DB, proposalID uuid.UUID, status model.ProposalStatus) error {
	res := tx.Model(&model.BookingProposal{}).
		Where("id = ? AND status = ?", proposalID, model.ProposalStatusPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProposalNotPending
	}
	return nil
}
